package models

import "time"

type Restaurant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OwnerID    uint      `gorm:"not null;index" json:"owner_id"`
	Owner      User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Address    string    `gorm:"type:varchar(255);not null" json:"address"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	ImageURL   *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	// Operating hours as "HH:MM" in the restaurant's local day.
	OpensAt     string    `gorm:"type:varchar(5);not null;default:'12:00'" json:"opens_at"`
	ClosesAt    string    `gorm:"type:varchar(5);not null;default:'23:00'" json:"closes_at"`
	SlotMinutes int       `gorm:"not null;default:90" json:"slot_minutes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
