package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

type FavoriteController struct {
	DB *gorm.DB
}

func NewFavoriteController(db *gorm.DB) *FavoriteController {
	return &FavoriteController{DB: db}
}

// AddFavorite saves a (user, restaurant) pair. Idempotent: favoriting a
// restaurant twice answers success without a second record.
func (fc *FavoriteController) AddFavorite(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		RestaurantID uint `json:"restaurant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var restaurant models.Restaurant
	if err := fc.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var existing models.Favorite
	err = fc.DB.Where("user_id = ? AND restaurant_id = ?", userID, req.RestaurantID).
		First(&existing).Error
	if err == nil {
		utils.RespondJSON(c, http.StatusOK, "Restaurant already in favorites", existing)
		return
	}

	favorite := models.Favorite{UserID: userID, RestaurantID: req.RestaurantID}
	if err := fc.DB.Create(&favorite).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Restaurant added to favorites", favorite)
}

// RemoveFavorite deletes the pair. Idempotent: removing a restaurant that
// was never favorited is a no-op success.
func (fc *FavoriteController) RemoveFavorite(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	if err := fc.DB.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.Favorite{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant removed from favorites",
		gin.H{"restaurant_id": restaurantID})
}

// GetFavorites lists the caller's favorites with restaurant details.
func (fc *FavoriteController) GetFavorites(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var favorites []models.Favorite
	if err := fc.DB.Preload("Restaurant").Where("user_id = ?", userID).
		Find(&favorites).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of favorites", favorites)
}
