package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/reservation-app/controllers"
	"github.com/tablebook/reservation-app/middlewares"
	"github.com/tablebook/reservation-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Global per-IP limit. Attached before any route registers, otherwise
	// the already-built handler chains never see it.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	reservationSvc := services.NewReservationService(db)
	scheduleSvc := services.NewScheduleService(db)
	mailerSvc := services.NewMailerService(db)
	imageSvc := services.NewImageService()

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db, scheduleSvc, imageSvc)
	categoryCtrl := controllers.NewCategoryController(db)
	tableCtrl := controllers.NewTableController(db)
	scheduleCtrl := controllers.NewScheduleController(db, scheduleSvc)
	reservationCtrl := controllers.NewReservationController(db, reservationSvc, mailerSvc)
	favoriteCtrl := controllers.NewFavoriteController(db)
	reviewCtrl := controllers.NewReviewController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/refresh", userCtrl.Refresh)
	}

	// Browsing without an account
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	r.GET("/restaurants/:restaurant_id/tables", tableCtrl.GetTables)
	r.GET("/restaurants/:restaurant_id/slots", scheduleCtrl.GetSlots)
	r.GET("/restaurants/:restaurant_id/availability", reservationCtrl.CheckAvailability)
	r.GET("/restaurants/:restaurant_id/reviews", reviewCtrl.GetRestaurantReviews)
	r.GET("/restaurants/:restaurant_id/reviews/average", reviewCtrl.GetAverageRating)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	// Account
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)
	auth.DELETE("/profile", userCtrl.Deactivate)
	auth.POST("/logout", userCtrl.Logout)

	// Reservations (diner side)
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.GET("/reservations", reservationCtrl.GetMyReservations)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.CancelReservation)

	// Favorites
	auth.POST("/favorites", favoriteCtrl.AddFavorite)
	auth.GET("/favorites", favoriteCtrl.GetFavorites)
	auth.DELETE("/favorites/:restaurant_id", favoriteCtrl.RemoveFavorite)

	// Reviews
	auth.POST("/reviews", reviewCtrl.CreateReview)
	auth.PATCH("/reviews/:restaurant_id", reviewCtrl.UpdateReview)
	auth.DELETE("/reviews/:restaurant_id", reviewCtrl.DeleteReview)

	// Restaurant management (owner role required; ownership of the
	// specific restaurant is checked per handler)
	owner := auth.Group("/")
	owner.Use(middlewares.RequireOwner())
	{
		owner.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		owner.PATCH("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
		owner.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeleteRestaurant)
		owner.POST("/restaurants/:restaurant_id/image", restaurantCtrl.UploadImage)

		owner.POST("/categories", categoryCtrl.CreateCategory)

		owner.POST("/restaurants/:restaurant_id/tables", tableCtrl.CreateTable)
		owner.PATCH("/restaurants/:restaurant_id/tables/:table_id", tableCtrl.UpdateTable)
		owner.DELETE("/restaurants/:restaurant_id/tables/:table_id", tableCtrl.DeleteTable)

		owner.POST("/restaurants/:restaurant_id/slots", scheduleCtrl.GenerateSlots)

		owner.GET("/restaurants/:restaurant_id/reservations", reservationCtrl.GetRestaurantReservations)
		owner.POST("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
	}

	return r
}
