package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/services"
	"github.com/tablebook/reservation-app/utils"
)

type ReservationController struct {
	DB           *gorm.DB
	Reservations *services.ReservationService
	Mailer       *services.MailerService
}

func NewReservationController(db *gorm.DB, reservations *services.ReservationService, mailer *services.MailerService) *ReservationController {
	return &ReservationController{DB: db, Reservations: reservations, Mailer: mailer}
}

// CheckAvailability lists slots that still fit the party on a date.
// GET /restaurants/:restaurant_id/availability?date=YYYY-MM-DD&party_size=N
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date query must be YYYY-MM-DD"))
		return
	}

	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("party_size query must be a number"))
		return
	}

	available, err := rc.Reservations.CheckAvailability(restaurantID, date, partySize)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available slots", available)
}

// CreateReservation books a slot for the caller and triggers the
// confirmation email. The capacity recheck happens inside the booking
// transaction; a lost race answers 409.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		TimeSlotID uint `json:"time_slot_id" binding:"required"`
		PartySize  int  `json:"party_size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Create(userID, req.TimeSlotID, req.PartySize)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	rc.Mailer.NotifyReservation(reservation.ID, services.EmailEventCreated)

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetMyReservations lists the caller's reservations.
func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	reservations, err := rc.Reservations.ListForUser(userID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetRestaurantReservations lists a restaurant's reservations. Owner only.
func (rc *ReservationController) GetRestaurantReservations(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	reservations, err := rc.Reservations.ListForRestaurant(ownerID, restaurantID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// ConfirmReservation -> pending becomes confirmed. Restaurant owner only.
func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	reservationID, ok := paramUint(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := rc.Reservations.Confirm(ownerID, reservationID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	rc.Mailer.NotifyReservation(reservation.ID, services.EmailEventConfirmed)

	utils.RespondJSON(c, http.StatusOK, "Reservation confirmed", reservation)
}

// CancelReservation frees the held capacity. Allowed for the booking diner
// or the restaurant owner.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	reservationID, ok := paramUint(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := rc.Reservations.Cancel(userID, reservationID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	rc.Mailer.NotifyReservation(reservation.ID, services.EmailEventCancelled)

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}

// paramUint parses a numeric path parameter.
func paramUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New(name+" must be a number"))
		return 0, false
	}
	return uint(value), true
}
