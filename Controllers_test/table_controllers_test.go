package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/controllers"
	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

func setupTableRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tableCtrl := controllers.NewTableController(db)

	router.GET("/restaurants/:restaurant_id/tables", tableCtrl.GetTables)

	owner := router.Group("/api")
	owner.Use(asUser(userID, "owner"))
	owner.POST("/restaurants/:restaurant_id/tables", tableCtrl.CreateTable)
	owner.PATCH("/restaurants/:restaurant_id/tables/:table_id", tableCtrl.UpdateTable)
	owner.DELETE("/restaurants/:restaurant_id/tables/:table_id", tableCtrl.DeleteTable)

	return router
}

func TestTableLifecycle(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("table_lifecycle")
	owner := seedUser(db, "Owner", "owner@example.com", "owner")
	restaurant := seedRestaurant(db, owner.ID, "Trattoria Bella", "bella@example.com")

	router := setupTableRouter(db, owner.ID)
	base := "/api/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/tables"

	w := doJSON(router, "POST", base, gin.H{"number": "A1", "capacity": 4})
	assert.Equal(t, http.StatusCreated, w.Code)
	tableID := uint(dataMap(t, w)["id"].(float64))

	w = doJSON(router, "POST", base, gin.H{"number": "A2", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Public listing, no auth required.
	w = doJSON(router, "GET", "/restaurants/"+strconv.Itoa(int(restaurant.ID))+"/tables", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 1)

	w = doJSON(router, "PATCH", base+"/"+strconv.Itoa(int(tableID)), gin.H{"capacity": 6})
	assert.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	db.First(&table, tableID)
	assert.Equal(t, 6, table.Capacity)

	w = doJSON(router, "DELETE", base+"/"+strconv.Itoa(int(tableID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

// Shrinking a table under its booked party sizes would break the capacity
// invariant on already-accepted reservations.
func TestShrinkCapacityBelowBookings(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("table_shrink")
	owner := seedUser(db, "Owner", "owner@example.com", "owner")
	diner := seedUser(db, "Diner", "diner@example.com", "diner")
	restaurant := seedRestaurant(db, owner.ID, "Trattoria Bella", "bella@example.com")
	table, slot := seedBookableSlot(db, restaurant.ID, 4)

	db.Create(&models.Reservation{
		Code: "resv-shrink-1", UserID: diner.ID, RestaurantID: restaurant.ID,
		TableID: table.ID, TimeSlotID: slot.ID, PartySize: 4, Status: "confirmed",
	})

	router := setupTableRouter(db, owner.ID)
	path := "/api/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/tables/" + strconv.Itoa(int(table.ID))

	w := doJSON(router, "PATCH", path, gin.H{"capacity": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	var fresh models.Table
	db.First(&fresh, table.ID)
	assert.Equal(t, 4, fresh.Capacity)

	// Growing is fine, and shrinking back down to the booked sum is too.
	w = doJSON(router, "PATCH", path, gin.H{"capacity": 6})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "PATCH", path, gin.H{"capacity": 4})
	assert.Equal(t, http.StatusOK, w.Code)

	// A cancelled booking no longer pins the capacity.
	db.Model(&models.Reservation{}).Where("code = ?", "resv-shrink-1").Update("status", "cancelled")

	w = doJSON(router, "PATCH", path, gin.H{"capacity": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&fresh, table.ID)
	assert.Equal(t, 2, fresh.Capacity)
}

func TestTableOwnershipRequired(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("table_ownership")
	owner := seedUser(db, "Owner", "owner@example.com", "owner")
	intruder := seedUser(db, "Intruder", "intruder@example.com", "owner")
	restaurant := seedRestaurant(db, owner.ID, "Trattoria Bella", "bella@example.com")
	table, _ := seedBookableSlot(db, restaurant.ID, 4)

	router := setupTableRouter(db, intruder.ID)
	base := "/api/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/tables"

	w := doJSON(router, "POST", base, gin.H{"number": "B1", "capacity": 2})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "PATCH", base+"/"+strconv.Itoa(int(table.ID)), gin.H{"capacity": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "DELETE", base+"/"+strconv.Itoa(int(table.ID)), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
