package models

import "time"

// EmailLog records every outbound notification attempt. Delivery failures
// are logged here and never bubble up to the request that triggered them.
type EmailLog struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ReservationID uint        `gorm:"not null;index" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID" json:"-"`
	Recipient     string      `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject       string      `gorm:"type:varchar(255);not null" json:"subject"`
	Event         string      `gorm:"type:varchar(50);not null" json:"event"`
	Status        string      `gorm:"type:varchar(20);not null" json:"status"`
	Error         *string     `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
