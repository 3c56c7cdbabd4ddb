package Controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

// openTestDB creates a named SQLite in-memory database with the full
// schema. Naming the database keeps every pooled connection on the same
// store; each test uses its own name for isolation.
func openTestDB(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Restaurant{},
		&models.Table{},
		&models.TimeSlot{},
		&models.Reservation{},
		&models.Favorite{},
		&models.Review{},
		&models.EmailLog{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

// asUser stands in for the auth middleware and pins the caller identity.
func asUser(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func seedUser(db *gorm.DB, name, email, role string) models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Phone:    "+34600123456",
		Role:     role,
		Active:   true,
	}
	db.Create(&user)
	return user
}

func seedRestaurant(db *gorm.DB, ownerID uint, name, email string) models.Restaurant {
	restaurant := models.Restaurant{
		OwnerID:     ownerID,
		Name:        name,
		Email:       email,
		Address:     "Calle Mayor 45",
		OpensAt:     "12:00",
		ClosesAt:    "23:00",
		SlotMinutes: 90,
	}
	db.Create(&restaurant)
	return restaurant
}

// seedBookableSlot publishes a slot tomorrow at 12:00 UTC on a fresh table
// of the given capacity.
func seedBookableSlot(db *gorm.DB, restaurantID uint, capacity int) (models.Table, models.TimeSlot) {
	table := models.Table{RestaurantID: restaurantID, Number: "A1", Capacity: capacity}
	db.Create(&table)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	slot := models.TimeSlot{
		RestaurantID: restaurantID,
		TableID:      table.ID,
		StartsAt:     time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 12, 0, 0, 0, time.UTC),
		DurationMin:  90,
		Status:       "published",
	}
	db.Create(&slot)
	return table, slot
}

// doJSON performs a request with an optional JSON body.
func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseBody decodes the standard response envelope.
func parseBody(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// dataMap returns the envelope data as an object.
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	resp := parseBody(t, w)
	data, ok := resp.Data.(map[string]interface{})
	assert.True(t, ok, "expected object data, got %T", resp.Data)
	return data
}

// dataList returns the envelope data as an array.
func dataList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	resp := parseBody(t, w)
	if resp.Data == nil {
		return nil
	}
	data, ok := resp.Data.([]interface{})
	assert.True(t, ok, "expected array data, got %T", resp.Data)
	return data
}
