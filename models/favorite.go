package models

import "time"

type Favorite struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_fav_user_restaurant" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	RestaurantID uint       `gorm:"not null;uniqueIndex:idx_fav_user_restaurant" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant"`
	CreatedAt    time.Time  `json:"created_at"`
}
