package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/services"
	"github.com/tablebook/reservation-app/utils"
)

type RestaurantController struct {
	DB       *gorm.DB
	Schedule *services.ScheduleService
	Images   *services.ImageService
}

func NewRestaurantController(db *gorm.DB, schedule *services.ScheduleService, images *services.ImageService) *RestaurantController {
	return &RestaurantController{DB: db, Schedule: schedule, Images: images}
}

// CreateRestaurant registers a restaurant owned by the calling user.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		Name        string   `json:"name" binding:"required"`
		Email       string   `json:"email" binding:"required"`
		Phone       string   `json:"phone"`
		Address     string   `json:"address" binding:"required"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		CategoryID  *uint    `json:"category_id"`
		OpensAt     string   `json:"opens_at"`
		ClosesAt    string   `json:"closes_at"`
		SlotMinutes int      `json:"slot_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !utils.IsValidEmail(req.Email) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email format"))
		return
	}

	var existing models.Restaurant
	if err := rc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("restaurant already exists"))
		return
	}

	restaurant := models.Restaurant{
		OwnerID:     ownerID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CategoryID:  req.CategoryID,
		OpensAt:     "12:00",
		ClosesAt:    "23:00",
		SlotMinutes: 90,
	}
	if req.OpensAt != "" {
		restaurant.OpensAt = req.OpensAt
	}
	if req.ClosesAt != "" {
		restaurant.ClosesAt = req.ClosesAt
	}
	if req.SlotMinutes > 0 {
		restaurant.SlotMinutes = req.SlotMinutes
	}

	if err := validateHours(restaurant.OpensAt, restaurant.ClosesAt); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New restaurant created: %s (owner=%d)", restaurant.Name, ownerID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetAllRestaurants lists restaurants, optionally filtered by name
// substring (?q=) and category (?category_id=).
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	query := rc.DB.Preload("Category")

	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var restaurants []models.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// GetRestaurantByID -> detail of one restaurant.
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var restaurant models.Restaurant
	if err := rc.DB.Preload("Category").First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant edits restaurant metadata. Owning user only. Changing
// operating hours or the slot length invalidates future published slots.
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Email       *string  `json:"email"`
		Phone       *string  `json:"phone"`
		Address     *string  `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		CategoryID  *uint    `json:"category_id"`
		OpensAt     *string  `json:"opens_at"`
		ClosesAt    *string  `json:"closes_at"`
		SlotMinutes *int     `json:"slot_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Email != nil {
		if !utils.IsValidEmail(*req.Email) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email format"))
			return
		}
		restaurant.Email = *req.Email
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.Latitude != nil {
		restaurant.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		restaurant.Longitude = req.Longitude
	}
	if req.CategoryID != nil {
		restaurant.CategoryID = req.CategoryID
	}

	scheduleChanged := false
	if req.OpensAt != nil && *req.OpensAt != restaurant.OpensAt {
		restaurant.OpensAt = *req.OpensAt
		scheduleChanged = true
	}
	if req.ClosesAt != nil && *req.ClosesAt != restaurant.ClosesAt {
		restaurant.ClosesAt = *req.ClosesAt
		scheduleChanged = true
	}
	if req.SlotMinutes != nil && *req.SlotMinutes != restaurant.SlotMinutes {
		if *req.SlotMinutes <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("slot_minutes must be positive"))
			return
		}
		restaurant.SlotMinutes = *req.SlotMinutes
		scheduleChanged = true
	}

	if err := validateHours(restaurant.OpensAt, restaurant.ClosesAt); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.DB.Save(restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if scheduleChanged {
		if _, err := rc.Schedule.InvalidateFutureSlots(restaurant.ID); err != nil {
			utils.ErrorLogger.Printf("Error invalidating slots for restaurant %d: %v", restaurant.ID, err)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant removes a restaurant. Owning user only.
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	if err := rc.DB.Delete(restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %d deleted", restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"id": restaurant.ID})
}

// UploadImage stores the restaurant profile image at the image host and
// records the returned URL. Hosting failures surface as an upload error,
// no restaurant data changes.
func (rc *RestaurantController) UploadImage(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file field missing"))
		return
	}
	if fileHeader.Size > 10<<20 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file exceeds 10MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	url, err := rc.Images.Upload(c.Request.Context(), file, "restaurants")
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	restaurant.ImageURL = &url
	if err := rc.DB.Save(restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Image uploaded", gin.H{"url": url})
}

// validateHours rejects malformed "HH:MM" values and inverted ranges
// before they poison slot generation and booking checks.
func validateHours(opensAt, closesAt string) error {
	open, err := services.ParseClock(opensAt)
	if err != nil {
		return errors.New("opens_at must be HH:MM")
	}
	close, err := services.ParseClock(closesAt)
	if err != nil {
		return errors.New("closes_at must be HH:MM")
	}
	if open >= close {
		return errors.New("closes_at must be after opens_at")
	}
	return nil
}

// ownedRestaurant loads the restaurant from the path and verifies the
// caller owns it. Writes the error response itself when the check fails.
func (rc *RestaurantController) ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return nil, false
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}

	if restaurant.OwnerID != ownerID {
		utils.RespondError(c, http.StatusForbidden, utils.ErrForbidden)
		return nil, false
	}
	return &restaurant, true
}
