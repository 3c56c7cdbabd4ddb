package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/models"
	"github.com/tablebook/reservation-app/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register a new diner or restaurant owner account.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Role     string `json:"role"` // diner (default) or owner
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !utils.IsValidEmail(req.Email) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email format"))
		return
	}
	if !utils.IsValidPassword(req.Password) {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("password must be 8-16 characters with at least one uppercase letter and one digit"))
		return
	}
	if !utils.IsValidPhone(req.Phone) {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("phone must be at least 9 characters of digits, + and -"))
		return
	}

	role := req.Role
	if role == "" {
		role = "diner"
	}
	if role != "diner" && role != "owner" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be diner or owner"))
		return
	}

	var existing models.User
	if err := uc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("user already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
		Role:     role,
		Active:   true,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login -> access + refresh tokens.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if !user.Active {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("account is deactivated"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s", user.Email)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"user_name":     user.Name,
		"user_role":     user.Role,
	})
}

// Refresh exchanges a valid refresh token for a new access token.
func (uc *UserController) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claims, err := utils.ParseToken(input.RefreshToken)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if claims.TokenType != utils.TokenTypeRefresh {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("not a refresh token"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, claims.UserID).Error; err != nil || !user.Active {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("account is not available"))
		return
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{
		"token": accessToken,
	})
}

// Logout revokes the presented access token.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString("token")
	if token != "" {
		utils.RevokeToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the authenticated user.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

// UpdateProfile edits name, phone, email or password of the caller.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		if !utils.IsValidEmail(*req.Email) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email format"))
			return
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		if !utils.IsValidPhone(*req.Phone) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid phone format"))
			return
		}
		user.Phone = *req.Phone
	}
	if req.Password != nil {
		if !utils.IsValidPassword(*req.Password) {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("password must be 8-16 characters with at least one uppercase letter and one digit"))
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		user.Password = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// Deactivate soft-disables the account. Users are never hard-deleted so
// reservation history stays intact.
func (uc *UserController) Deactivate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	user.Active = false
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if token := c.GetString("token"); token != "" {
		utils.RevokeToken(token)
	}

	utils.InfoLogger.Printf("User %d deactivated", user.ID)
	utils.RespondJSON(c, http.StatusOK, "Account deactivated", gin.H{"user_id": user.ID})
}

// currentUserID reads the user id the auth middleware stored on the
// context.
func currentUserID(c *gin.Context) (uint, error) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user id not found in context")
	}
	userID, ok := value.(uint)
	if !ok {
		return 0, errors.New("invalid user id type")
	}
	return userID, nil
}
