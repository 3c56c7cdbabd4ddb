package models

import "time"

type Reservation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Code         string     `gorm:"type:varchar(36);unique;not null" json:"code"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	TableID      uint       `gorm:"not null" json:"table_id"`
	Table        Table      `gorm:"foreignKey:TableID" json:"-"`
	TimeSlotID   uint       `gorm:"not null;index" json:"time_slot_id"`
	TimeSlot     TimeSlot   `gorm:"foreignKey:TimeSlotID" json:"time_slot"`
	PartySize    int        `gorm:"not null" json:"party_size"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// ExpiresAt is set while the reservation is pending; a pending
	// reservation past this moment no longer holds capacity.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
