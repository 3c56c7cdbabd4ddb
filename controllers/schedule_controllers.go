package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/services"
	"github.com/tablebook/reservation-app/utils"
)

type ScheduleController struct {
	DB       *gorm.DB
	Schedule *services.ScheduleService
}

func NewScheduleController(db *gorm.DB, schedule *services.ScheduleService) *ScheduleController {
	return &ScheduleController{DB: db, Schedule: schedule}
}

// GenerateSlots publishes the bookable slots of a day from the
// restaurant's operating hours. Owner only.
func (sc *ScheduleController) GenerateSlots(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date" binding:"required"` // YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	slots, err := sc.Schedule.GenerateSlots(ownerID, restaurantID, date)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Slots published", slots)
}

// GetSlots lists published slots of a restaurant for ?date=YYYY-MM-DD.
// Public read.
func (sc *ScheduleController) GetSlots(c *gin.Context) {
	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date query must be YYYY-MM-DD"))
		return
	}

	slots, err := sc.Schedule.ListSlots(restaurantID, date)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of slots", slots)
}
