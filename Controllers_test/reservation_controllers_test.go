package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/controllers"
	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/services"
	"github.com/tablebook/reservation-app/utils"
)

// setupReservationRouter mounts the reservation endpoints for one caller
// identity. Tests that need several actors build one router per actor on
// the same database.
func setupReservationRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	reservationCtrl := controllers.NewReservationController(db,
		services.NewReservationService(db), services.NewMailerService(db))

	router.GET("/restaurants/:restaurant_id/availability", reservationCtrl.CheckAvailability)

	auth := router.Group("/api")
	auth.Use(asUser(userID, role))
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.GET("/reservations", reservationCtrl.GetMyReservations)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.CancelReservation)
	auth.POST("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
	auth.GET("/restaurants/:restaurant_id/reservations", reservationCtrl.GetRestaurantReservations)

	return router
}

// Booking contention on a table for four: the first party takes all seats,
// a smaller party is turned away until the first cancels.
func TestReservationContentionFlow(t *testing.T) {
	utils.InitLogger()
	t.Setenv("MAILERSEND_API_KEY", "")
	db := openTestDB("reservation_contention")

	owner := seedUser(db, "Owner", "owner@example.com", "owner")
	dinerX := seedUser(db, "X", "x@example.com", "diner")
	dinerY := seedUser(db, "Y", "y@example.com", "diner")
	restaurant := seedRestaurant(db, owner.ID, "Trattoria Bella", "bella@example.com")
	_, slot := seedBookableSlot(db, restaurant.ID, 4)

	routerX := setupReservationRouter(db, dinerX.ID, "diner")
	routerY := setupReservationRouter(db, dinerY.ID, "diner")
	routerOwner := setupReservationRouter(db, owner.ID, "owner")

	w := doJSON(routerX, "POST", "/api/reservations", gin.H{
		"time_slot_id": slot.ID, "party_size": 4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, "pending", data["status"])
	reservationID := uint(data["id"].(float64))

	// Table is full.
	w = doJSON(routerY, "POST", "/api/reservations", gin.H{
		"time_slot_id": slot.ID, "party_size": 2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	confirmPath := fmt.Sprintf("/api/reservations/%d/confirm", reservationID)

	// Only the restaurant's owner may confirm.
	w = doJSON(routerY, "POST", confirmPath, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(routerOwner, "POST", confirmPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", dataMap(t, w)["status"])

	w = doJSON(routerX, "DELETE", fmt.Sprintf("/api/reservations/%d", reservationID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", dataMap(t, w)["status"])

	// The cancelled booking no longer holds the seats.
	w = doJSON(routerY, "POST", "/api/reservations", gin.H{
		"time_slot_id": slot.ID, "party_size": 2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(routerX, "GET", "/api/reservations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 1)

	w = doJSON(routerOwner, "GET", fmt.Sprintf("/api/restaurants/%d/reservations", restaurant.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 2)
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("reservation_availability")

	owner := seedUser(db, "Owner", "owner@example.com", "owner")
	diner := seedUser(db, "Diner", "diner@example.com", "diner")
	restaurant := seedRestaurant(db, owner.ID, "Trattoria Bella", "bella@example.com")
	_, slot := seedBookableSlot(db, restaurant.ID, 4)

	router := setupReservationRouter(db, diner.ID, "diner")
	date := slot.StartsAt.Format("2006-01-02")
	base := fmt.Sprintf("/restaurants/%d/availability", restaurant.ID)

	w := doJSON(router, "GET", base+"?date="+date+"&party_size=4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 1)

	w = doJSON(router, "GET", base+"?date=not-a-date&party_size=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "GET", base+"?date="+date, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "GET", "/restaurants/9999/availability?date="+date+"&party_size=2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Book three of the four seats; a pair no longer fits.
	w = doJSON(router, "POST", "/api/reservations", gin.H{
		"time_slot_id": slot.ID, "party_size": 3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", base+"?date="+date+"&party_size=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 0)

	w = doJSON(router, "GET", base+"?date="+date+"&party_size=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 1)
}

func TestCreateReservationRejectsBadSlots(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("reservation_bad_slots")

	owner := seedUser(db, "Owner", "owner@example.com", "owner")
	diner := seedUser(db, "Diner", "diner@example.com", "diner")
	restaurant := seedRestaurant(db, owner.ID, "Trattoria Bella", "bella@example.com")
	table, slot := seedBookableSlot(db, restaurant.ID, 4)

	router := setupReservationRouter(db, diner.ID, "diner")

	// Larger than the table.
	w := doJSON(router, "POST", "/api/reservations", gin.H{
		"time_slot_id": slot.ID, "party_size": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/reservations", gin.H{
		"time_slot_id": 9999, "party_size": 2,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Invalidated slots are not bookable.
	invalidated := models.TimeSlot{
		RestaurantID: restaurant.ID, TableID: table.ID,
		StartsAt:    slot.StartsAt.Add(2 * time.Hour),
		DurationMin: 90, Status: "invalidated",
	}
	db.Create(&invalidated)

	w = doJSON(router, "POST", "/api/reservations", gin.H{
		"time_slot_id": invalidated.ID, "party_size": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nor slots already in the past.
	past := models.TimeSlot{
		RestaurantID: restaurant.ID, TableID: table.ID,
		StartsAt:    time.Now().UTC().Add(-24 * time.Hour),
		DurationMin: 90, Status: "published",
	}
	db.Create(&past)

	w = doJSON(router, "POST", "/api/reservations", gin.H{
		"time_slot_id": past.ID, "party_size": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
