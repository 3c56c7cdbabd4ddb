package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview adds the caller's rating for a restaurant. One review per
// (user, restaurant); a second attempt answers 409.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		Rating       int    `json:"rating" binding:"required"`
		Comment      string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var existing models.Review
	if err := rc.DB.Where("user_id = ? AND restaurant_id = ?", userID, req.RestaurantID).
		First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("you have already reviewed this restaurant"))
		return
	}

	review := models.Review{
		UserID:       userID,
		RestaurantID: req.RestaurantID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := rc.DB.Create(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}

// UpdateReview edits the caller's review of a restaurant.
func (rc *ReviewController) UpdateReview(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	var req struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var review models.Review
	if err := rc.DB.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&review).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no review for this restaurant by this user"))
		return
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
			return
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := rc.DB.Save(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review updated", review)
}

// DeleteReview removes the caller's review of a restaurant.
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	var review models.Review
	if err := rc.DB.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&review).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no review for this restaurant by this user"))
		return
	}

	if err := rc.DB.Delete(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review deleted", gin.H{"restaurant_id": restaurantID})
}

// GetRestaurantReviews lists reviews of a restaurant. Public read.
func (rc *ReviewController) GetRestaurantReviews(c *gin.Context) {
	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	var reviews []models.Review
	if err := rc.DB.Where("restaurant_id = ?", restaurantID).Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reviews", reviews)
}

// GetAverageRating returns the mean rating of a restaurant.
func (rc *ReviewController) GetAverageRating(c *gin.Context) {
	restaurantID, ok := paramUint(c, "restaurant_id")
	if !ok {
		return
	}

	var result struct {
		Average float64
		Count   int64
	}
	err := rc.DB.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Average rating", gin.H{
		"restaurant_id":  restaurantID,
		"average_rating": result.Average,
		"review_count":   result.Count,
	})
}
