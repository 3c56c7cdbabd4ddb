package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailersend/mailersend-go"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
)

// Email events
const (
	EmailEventCreated   = "reservation_created"
	EmailEventConfirmed = "reservation_confirmed"
	EmailEventCancelled = "reservation_cancelled"
)

// Email log status
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// MailerService sends reservation confirmation email through MailerSend.
// Delivery is fire-and-forget: the reservation is already committed when a
// send runs, so failures are logged and recorded, never surfaced to the
// request.
type MailerService struct {
	db        *gorm.DB
	client    *mailersend.Mailersend
	fromName  string
	fromEmail string
}

func NewMailerService(db *gorm.DB) *MailerService {
	m := &MailerService{
		db:        db,
		fromName:  os.Getenv("MAIL_FROM_NAME"),
		fromEmail: os.Getenv("MAIL_FROM_EMAIL"),
	}
	if m.fromName == "" {
		m.fromName = "TableBook"
	}

	apiKey := os.Getenv("MAILERSEND_API_KEY")
	if apiKey == "" || m.fromEmail == "" {
		log.Println("Warning: MAILERSEND_API_KEY or MAIL_FROM_EMAIL not set, email dispatch disabled")
		return m
	}

	m.client = mailersend.NewMailersend(apiKey)
	return m
}

// NotifyReservation dispatches the event email in the background.
func (m *MailerService) NotifyReservation(reservationID uint, event string) {
	go m.send(reservationID, event)
}

func (m *MailerService) send(reservationID uint, event string) {
	var reservation models.Reservation
	err := m.db.Preload("User").Preload("Restaurant").Preload("TimeSlot").
		First(&reservation, reservationID).Error
	if err != nil {
		log.Printf("Mailer: reservation %d not found: %v", reservationID, err)
		return
	}

	subject, text := RenderReservationEmail(&reservation, event)

	if m.client == nil {
		log.Printf("Mailer disabled, skipping %q to %s", subject, reservation.User.Email)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{
		{Name: reservation.User.Name, Email: reservation.User.Email},
	})
	message.SetSubject(subject)
	message.SetText(text)

	entry := models.EmailLog{
		ReservationID: reservation.ID,
		Recipient:     reservation.User.Email,
		Subject:       subject,
		Event:         event,
		Status:        EmailStatusSent,
	}

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		log.Printf("Mailer: error sending %q to %s: %v", subject, reservation.User.Email, err)
		msg := err.Error()
		entry.Status = EmailStatusFailed
		entry.Error = &msg
	}

	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("Mailer: error recording email log: %v", err)
	}
}

// RenderReservationEmail builds the subject and plain-text body for a
// reservation event.
func RenderReservationEmail(r *models.Reservation, event string) (subject, text string) {
	when := r.TimeSlot.StartsAt.Format("Monday, 2 January 2006 at 15:04")

	switch event {
	case EmailEventConfirmed:
		subject = fmt.Sprintf("Your reservation at %s is confirmed", r.Restaurant.Name)
		text = fmt.Sprintf(
			"Hi %s,\n\n%s has confirmed your reservation for %d on %s.\n\nReservation code: %s\n\nSee you there!\nTableBook",
			r.User.Name, r.Restaurant.Name, r.PartySize, when, r.Code)
	case EmailEventCancelled:
		subject = fmt.Sprintf("Your reservation at %s was cancelled", r.Restaurant.Name)
		text = fmt.Sprintf(
			"Hi %s,\n\nYour reservation for %d on %s at %s has been cancelled.\n\nReservation code: %s\n\nTableBook",
			r.User.Name, r.PartySize, when, r.Restaurant.Name, r.Code)
	default:
		subject = fmt.Sprintf("Reservation request received for %s", r.Restaurant.Name)
		text = fmt.Sprintf(
			"Hi %s,\n\nWe received your reservation request for %d on %s at %s. The restaurant will confirm it shortly.\n\nReservation code: %s\n\nTableBook",
			r.User.Name, r.PartySize, when, r.Restaurant.Name, r.Code)
	}
	return subject, text
}
