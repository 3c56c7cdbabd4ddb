package models

import "time"

type TimeSlot struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	TableID      uint       `gorm:"not null;index" json:"table_id"`
	Table        Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"table"`
	StartsAt     time.Time  `gorm:"not null;index" json:"starts_at"`
	DurationMin  int        `gorm:"not null" json:"duration_min"`
	// published slots are bookable; hour changes invalidate future slots
	// instead of mutating them.
	Status    string    `gorm:"type:varchar(20);not null;default:'published'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
