package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

// Reservation status
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// Time slot status
const (
	SlotStatusPublished   = "published"
	SlotStatusInvalidated = "invalidated"
)

// ReservationService owns the booking state machine and the capacity
// invariant: the sum of party sizes across non-cancelled reservations of a
// time slot never exceeds its table's capacity.
type ReservationService struct {
	db      *gorm.DB
	holdTTL time.Duration

	// CheckInterval controls the expiry checker loop, shortened in tests.
	CheckInterval time.Duration
}

func NewReservationService(db *gorm.DB) *ReservationService {
	holdMinutes := 30
	if v := os.Getenv("RESERVATION_HOLD_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			holdMinutes = n
		}
	}

	return &ReservationService{
		db:            db,
		holdTTL:       time.Duration(holdMinutes) * time.Minute,
		CheckInterval: time.Minute,
	}
}

// AvailableSlot pairs a bookable slot with its remaining capacity.
type AvailableSlot struct {
	TimeSlot  models.TimeSlot `json:"time_slot"`
	Remaining int             `json:"remaining"`
}

// CheckAvailability lists published slots of a restaurant on the given day
// that still fit partySize. Pure read, no side effects.
func (s *ReservationService) CheckAvailability(restaurantID uint, date time.Time, partySize int) ([]AvailableSlot, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", utils.ErrInvalidRequest)
	}

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, fmt.Errorf("%w: restaurant %d", utils.ErrNotFound, restaurantID)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var slots []models.TimeSlot
	err := s.db.Preload("Table").
		Where("restaurant_id = ? AND status = ? AND starts_at >= ? AND starts_at < ?",
			restaurantID, SlotStatusPublished, dayStart, dayEnd).
		Order("starts_at, table_id").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	available := make([]AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		booked, err := s.bookedSize(s.db, slot.ID, now)
		if err != nil {
			return nil, err
		}
		remaining := slot.Table.Capacity - booked
		if remaining >= partySize {
			available = append(available, AvailableSlot{TimeSlot: slot, Remaining: remaining})
		}
	}
	return available, nil
}

// bookedSize sums party sizes that still hold capacity on a slot:
// confirmed reservations plus pendings whose hold has not expired.
func (s *ReservationService) bookedSize(tx *gorm.DB, slotID uint, now time.Time) (int, error) {
	var total int64
	err := tx.Model(&models.Reservation{}).
		Where("time_slot_id = ?", slotID).
		Where("status = ? OR (status = ? AND (expires_at IS NULL OR expires_at > ?))",
			ReservationStatusConfirmed, ReservationStatusPending, now).
		Select("COALESCE(SUM(party_size), 0)").
		Scan(&total).Error
	return int(total), err
}

// Create books a slot for the user. The capacity check and the insert run
// in one transaction with the slot row locked, so two requests racing for
// the last seats serialize at the database and exactly one wins.
func (s *ReservationService) Create(userID, slotID uint, partySize int) (*models.Reservation, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", utils.ErrInvalidRequest)
	}

	var reservation models.Reservation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Table").Preload("Restaurant").
			First(&slot, slotID).Error; err != nil {
			return fmt.Errorf("%w: time slot %d", utils.ErrNotFound, slotID)
		}

		now := time.Now().UTC()
		if slot.Status != SlotStatusPublished {
			return fmt.Errorf("%w: time slot is no longer published", utils.ErrInvalidRequest)
		}
		if !slot.StartsAt.After(now) {
			return fmt.Errorf("%w: time slot is in the past", utils.ErrInvalidRequest)
		}
		if !withinOperatingHours(&slot.Restaurant, slot.StartsAt, slot.DurationMin) {
			return fmt.Errorf("%w: time slot is outside operating hours", utils.ErrInvalidRequest)
		}
		if partySize > slot.Table.Capacity {
			return fmt.Errorf("%w: party size %d exceeds table capacity %d",
				utils.ErrInvalidRequest, partySize, slot.Table.Capacity)
		}

		// Release stale holds before counting, so capacity never waits on
		// the background checker.
		if err := tx.Model(&models.Reservation{}).
			Where("time_slot_id = ? AND status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
				slot.ID, ReservationStatusPending, now).
			Update("status", ReservationStatusCancelled).Error; err != nil {
			return err
		}

		booked, err := s.bookedSize(tx, slot.ID, now)
		if err != nil {
			return err
		}
		if booked+partySize > slot.Table.Capacity {
			return utils.ErrCapacityExceeded
		}

		expiresAt := now.Add(s.holdTTL)
		reservation = models.Reservation{
			Code:         uuid.NewString(),
			UserID:       userID,
			RestaurantID: slot.RestaurantID,
			TableID:      slot.TableID,
			TimeSlotID:   slot.ID,
			PartySize:    partySize,
			Status:       ReservationStatusPending,
			ExpiresAt:    &expiresAt,
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Reservation %s created (slot=%d, party=%d)", reservation.Code, slotID, partySize)
	return &reservation, nil
}

// Confirm transitions pending -> confirmed. Restaurant owner only.
func (s *ReservationService) Confirm(ownerID, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.Preload("Restaurant").Preload("TimeSlot").First(&reservation, reservationID).Error; err != nil {
		return nil, fmt.Errorf("%w: reservation %d", utils.ErrNotFound, reservationID)
	}

	if reservation.Restaurant.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}
	if reservation.Status != ReservationStatusPending {
		return nil, fmt.Errorf("%w: only pending reservations can be confirmed (current: %s)",
			utils.ErrInvalidRequest, reservation.Status)
	}

	now := time.Now().UTC()
	if reservation.ExpiresAt != nil && !reservation.ExpiresAt.After(now) {
		// The hold lapsed before the owner acted; finish the expiry here.
		if err := s.db.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservation.ID, ReservationStatusPending).
			Updates(map[string]interface{}{"status": ReservationStatusCancelled, "expires_at": nil}).Error; err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reservation hold expired", utils.ErrInvalidRequest)
	}

	// Conditional transition: if a concurrent cancel or expiry got there
	// first, this update matches no row and the confirm loses.
	result := s.db.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, ReservationStatusPending).
		Updates(map[string]interface{}{"status": ReservationStatusConfirmed, "expires_at": nil})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: reservation is no longer pending", utils.ErrInvalidRequest)
	}

	reservation.Status = ReservationStatusConfirmed
	reservation.ExpiresAt = nil

	log.Printf("Reservation %s confirmed by owner %d", reservation.Code, ownerID)
	return &reservation, nil
}

// Cancel transitions pending|confirmed -> cancelled and frees the held
// capacity. Allowed for the reservation's user or the restaurant's owner.
func (s *ReservationService) Cancel(requesterID uint, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.Preload("Restaurant").Preload("TimeSlot").First(&reservation, reservationID).Error; err != nil {
		return nil, fmt.Errorf("%w: reservation %d", utils.ErrNotFound, reservationID)
	}

	if reservation.UserID != requesterID && reservation.Restaurant.OwnerID != requesterID {
		return nil, utils.ErrForbidden
	}
	if reservation.Status == ReservationStatusCancelled {
		return nil, fmt.Errorf("%w: reservation is already cancelled", utils.ErrInvalidRequest)
	}

	// Cancelled is terminal, so only pending or confirmed rows may flip.
	result := s.db.Model(&models.Reservation{}).
		Where("id = ? AND status IN ?", reservation.ID,
			[]string{ReservationStatusPending, ReservationStatusConfirmed}).
		Updates(map[string]interface{}{"status": ReservationStatusCancelled, "expires_at": nil})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: reservation is already cancelled", utils.ErrInvalidRequest)
	}

	reservation.Status = ReservationStatusCancelled
	reservation.ExpiresAt = nil

	log.Printf("Reservation %s cancelled by user %d", reservation.Code, requesterID)
	return &reservation, nil
}

// ListForUser returns the user's reservations, newest first.
func (s *ReservationService) ListForUser(userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.Preload("TimeSlot").Preload("TimeSlot.Table").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// ListForRestaurant returns a restaurant's reservations. Owner only.
func (s *ReservationService) ListForRestaurant(ownerID, restaurantID uint) ([]models.Reservation, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, fmt.Errorf("%w: restaurant %d", utils.ErrNotFound, restaurantID)
	}
	if restaurant.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}

	var reservations []models.Reservation
	err := s.db.Preload("TimeSlot").Preload("TimeSlot.Table").Preload("User").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// ExpireOverdue cancels pending reservations whose hold lapsed before now.
// Returns the number of reservations released.
func (s *ReservationService) ExpireOverdue(now time.Time) (int64, error) {
	result := s.db.Model(&models.Reservation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			ReservationStatusPending, now).
		Updates(map[string]interface{}{"status": ReservationStatusCancelled})
	return result.RowsAffected, result.Error
}

// StartExpiryChecker runs the pending-hold sweep in the background.
func (s *ReservationService) StartExpiryChecker() {
	go s.expiryLoop()
	log.Println("Reservation expiry checker started")
}

func (s *ReservationService) expiryLoop() {
	for {
		time.Sleep(s.CheckInterval)

		released, err := s.ExpireOverdue(time.Now().UTC())
		if err != nil {
			log.Printf("Error expiring overdue reservations: %v", err)
			continue
		}
		if released > 0 {
			log.Printf("Released %d expired reservation hold(s)", released)
		}
	}
}

// withinOperatingHours reports whether a window fits inside the
// restaurant's configured "HH:MM" opening hours.
func withinOperatingHours(r *models.Restaurant, startsAt time.Time, durationMin int) bool {
	open, err := ParseClock(r.OpensAt)
	if err != nil {
		return false
	}
	close, err := ParseClock(r.ClosesAt)
	if err != nil {
		return false
	}

	start := startsAt.Hour()*60 + startsAt.Minute()
	end := start + durationMin
	return start >= open && end <= close
}

// ParseClock converts an "HH:MM" clock value to minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
