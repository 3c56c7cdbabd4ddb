package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/services"
	"github.com/tablebook/reservation-app/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable adds a seating unit to the caller's restaurant.
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurant, ok := tc.ownedRestaurant(c)
	if !ok {
		return
	}

	var req struct {
		Number   string `json:"number" binding:"required"`
		Capacity int    `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be at least 1"))
		return
	}

	table := models.Table{
		RestaurantID: restaurant.ID,
		Number:       req.Number,
		Capacity:     req.Capacity,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s (restaurant=%d, capacity=%d)",
		table.Number, restaurant.ID, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetTables lists the tables of a restaurant. Public read.
func (tc *TableController) GetTables(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var restaurant models.Restaurant
	if err := tc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable edits number or capacity. Owning user only.
func (tc *TableController) UpdateTable(c *gin.Context) {
	restaurant, ok := tc.ownedRestaurant(c)
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).
		First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Number   *string `json:"number"`
		Capacity *int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Number != nil {
		table.Number = *req.Number
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be at least 1"))
			return
		}
		// A shrink must not drop below what is already booked, or the
		// capacity invariant on the table's slots breaks retroactively.
		if *req.Capacity < table.Capacity {
			booked, err := maxBookedOnTable(tc.DB, table.ID)
			if err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
			if booked > *req.Capacity {
				utils.RespondDomainError(c, fmt.Errorf("%w: %d seat(s) already booked on this table",
					utils.ErrCapacityExceeded, booked))
				return
			}
		}
		table.Capacity = *req.Capacity
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table. Owning user only.
func (tc *TableController) DeleteTable(c *gin.Context) {
	restaurant, ok := tc.ownedRestaurant(c)
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).
		First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// maxBookedOnTable returns the largest booked party total across the
// table's future published slots. Confirmed reservations and live pending
// holds count; cancelled and lapsed ones do not.
func maxBookedOnTable(db *gorm.DB, tableID uint) (int, error) {
	now := time.Now().UTC()

	var totals []struct{ Total int }
	err := db.Model(&models.Reservation{}).
		Joins("JOIN time_slots ON time_slots.id = reservations.time_slot_id").
		Where("time_slots.table_id = ? AND time_slots.status = ? AND time_slots.starts_at > ?",
			tableID, services.SlotStatusPublished, now).
		Where("reservations.status = ? OR (reservations.status = ? AND (reservations.expires_at IS NULL OR reservations.expires_at > ?))",
			services.ReservationStatusConfirmed, services.ReservationStatusPending, now).
		Group("reservations.time_slot_id").
		Select("SUM(reservations.party_size) AS total").
		Scan(&totals).Error
	if err != nil {
		return 0, err
	}

	max := 0
	for _, t := range totals {
		if t.Total > max {
			max = t.Total
		}
	}
	return max, nil
}

func (tc *TableController) ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return nil, false
	}

	var restaurant models.Restaurant
	if err := tc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	if restaurant.OwnerID != ownerID {
		utils.RespondError(c, http.StatusForbidden, utils.ErrForbidden)
		return nil, false
	}
	return &restaurant, true
}
