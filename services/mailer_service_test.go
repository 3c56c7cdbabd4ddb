package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tablebook/reservation-app/models"
)

func sampleReservation() *models.Reservation {
	return &models.Reservation{
		Code:      "3f1c2b9a-demo",
		PartySize: 4,
		User:      models.User{Name: "Marta"},
		Restaurant: models.Restaurant{
			Name: "Trattoria Bella",
		},
		TimeSlot: models.TimeSlot{
			StartsAt: time.Date(2026, 9, 12, 20, 30, 0, 0, time.UTC),
		},
	}
}

func TestRenderReservationEmail(t *testing.T) {
	r := sampleReservation()

	subject, text := RenderReservationEmail(r, EmailEventCreated)
	assert.Equal(t, "Reservation request received for Trattoria Bella", subject)
	assert.Contains(t, text, "Hi Marta")
	assert.Contains(t, text, "for 4 on Saturday, 12 September 2026 at 20:30")
	assert.Contains(t, text, r.Code)

	subject, text = RenderReservationEmail(r, EmailEventConfirmed)
	assert.Equal(t, "Your reservation at Trattoria Bella is confirmed", subject)
	assert.Contains(t, text, "has confirmed your reservation")

	subject, text = RenderReservationEmail(r, EmailEventCancelled)
	assert.Equal(t, "Your reservation at Trattoria Bella was cancelled", subject)
	assert.Contains(t, text, "has been cancelled")
}

// A mailer without credentials must stay inert: no panic, no email log row.
func TestMailerDisabledNeverFails(t *testing.T) {
	db := setupReservationDB(t)
	assert.NoError(t, db.AutoMigrate(&models.EmailLog{}))

	_, diner, slot := seedSlot(t, db, 4)

	res, err := NewReservationService(db).Create(diner.ID, slot.ID, 2)
	assert.NoError(t, err)

	t.Setenv("MAILERSEND_API_KEY", "")
	mailer := NewMailerService(db)
	mailer.send(res.ID, EmailEventCreated)

	var logs int64
	db.Model(&models.EmailLog{}).Count(&logs)
	assert.Equal(t, int64(0), logs)
}
