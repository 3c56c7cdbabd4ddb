package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

// ScheduleService generates bookable time slots from a restaurant's
// configured operating hours and invalidates them when the hours change.
type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// GenerateSlots publishes slots for every table of the restaurant on the
// given day, stepping SlotMinutes from OpensAt while a full slot still fits
// before ClosesAt. Re-running for the same day is a no-op for slots that
// already exist.
func (s *ScheduleService) GenerateSlots(ownerID, restaurantID uint, date time.Time) ([]models.TimeSlot, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, fmt.Errorf("%w: restaurant %d", utils.ErrNotFound, restaurantID)
	}
	if restaurant.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}

	open, err := ParseClock(restaurant.OpensAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid opening time %q", utils.ErrInvalidRequest, restaurant.OpensAt)
	}
	close, err := ParseClock(restaurant.ClosesAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid closing time %q", utils.ErrInvalidRequest, restaurant.ClosesAt)
	}
	if restaurant.SlotMinutes <= 0 || open+restaurant.SlotMinutes > close {
		return nil, fmt.Errorf("%w: slot length does not fit operating hours", utils.ErrInvalidRequest)
	}

	var tables []models.Table
	if err := s.db.Where("restaurant_id = ?", restaurantID).Find(&tables).Error; err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: restaurant has no tables", utils.ErrInvalidRequest)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var created []models.TimeSlot
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			for minute := open; minute+restaurant.SlotMinutes <= close; minute += restaurant.SlotMinutes {
				startsAt := dayStart.Add(time.Duration(minute) * time.Minute)

				var count int64
				if err := tx.Model(&models.TimeSlot{}).
					Where("table_id = ? AND starts_at = ? AND status = ?",
						table.ID, startsAt, SlotStatusPublished).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}

				slot := models.TimeSlot{
					RestaurantID: restaurantID,
					TableID:      table.ID,
					StartsAt:     startsAt,
					DurationMin:  restaurant.SlotMinutes,
					Status:       SlotStatusPublished,
				}
				if err := tx.Create(&slot).Error; err != nil {
					return err
				}
				slot.Table = table
				created = append(created, slot)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Published %d slot(s) for restaurant %d on %s",
		len(created), restaurantID, dayStart.Format("2006-01-02"))
	return created, nil
}

// ListSlots returns the published slots of a restaurant on a day.
func (s *ScheduleService) ListSlots(restaurantID uint, date time.Time) ([]models.TimeSlot, error) {
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
	return slots, err
}

// InvalidateFutureSlots marks future published slots as invalidated.
// Called when operating hours or slot length change; existing slots are
// never mutated to a new schedule.
func (s *ScheduleService) InvalidateFutureSlots(restaurantID uint) (int64, error) {
	result := s.db.Model(&models.TimeSlot{}).
		Where("restaurant_id = ? AND status = ? AND starts_at > ?",
			restaurantID, SlotStatusPublished, time.Now().UTC()).
		Update("status", SlotStatusInvalidated)
	if result.Error == nil && result.RowsAffected > 0 {
		log.Printf("Invalidated %d future slot(s) for restaurant %d", result.RowsAffected, restaurantID)
	}
	return result.RowsAffected, result.Error
}
