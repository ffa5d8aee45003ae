package routes

import (
	"net/http"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/controllers"
	"salonbook-backend/middleware"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Services bundles the domain services the HTTP layer is built on.
type Services struct {
	Users        *services.UserService
	Catalog      *services.CatalogService
	Appointments *services.AppointmentService
	Reviews      *services.ReviewService
	Promotions   *services.PromotionService
	Reminders    *services.ReminderService
	Dashboard    *services.DashboardService
}

type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	Tokens         *utils.TokenManager
	SecureCookie   bool
	Location       *time.Location
}

func SetupRouter(svc Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(opts.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log := opts.Logger
	authController := controllers.NewAuthController(svc.Users, opts.Tokens, opts.SecureCookie, log)
	profileController := controllers.NewProfileController(svc.Users, log)
	serviceController := controllers.NewServiceController(svc.Catalog, log)
	appointmentController := controllers.NewAppointmentController(svc.Appointments, opts.Location, log)
	reviewController := controllers.NewReviewController(svc.Reviews, log)
	promotionController := controllers.NewPromotionController(svc.Promotions, log)
	reminderController := controllers.NewReminderController(svc.Reminders, log)
	dashboardController := controllers.NewDashboardController(svc.Dashboard, log)

	authenticate := middleware.Authenticate(opts.Tokens, svc.Users, log)
	adminOnly := middleware.RequireAdmin()

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)

		auth.GET("/profile", authenticate, profileController.GetProfile)
		auth.PUT("/profile", authenticate, profileController.UpdateProfile)
		auth.POST("/change-password", authenticate, profileController.ChangePassword)
	}

	catalog := api.Group("/services")
	{
		catalog.GET("", serviceController.GetServices)
		catalog.GET("/search", serviceController.SearchServices)
		catalog.GET("/:id", serviceController.GetService)
		catalog.POST("", authenticate, adminOnly, serviceController.CreateService)
		catalog.PUT("/:id", authenticate, adminOnly, serviceController.UpdateService)
		catalog.DELETE("/:id", authenticate, adminOnly, serviceController.DeleteService)
	}

	appointments := api.Group("/appointments", authenticate)
	{
		appointments.GET("", appointmentController.GetAppointments)
		appointments.GET("/available-slots", appointmentController.GetAvailableSlots)
		appointments.GET("/:id", appointmentController.GetAppointment)
		appointments.POST("", appointmentController.CreateAppointment)
		appointments.PATCH("/:id/status", appointmentController.UpdateAppointmentStatus)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewController.GetReviews)
		reviews.GET("/service/:serviceId", reviewController.GetServiceReviews)
		reviews.GET("/service/:serviceId/summary", reviewController.GetServiceRating)
		reviews.POST("", authenticate, reviewController.CreateReview)
		reviews.PUT("/:id", authenticate, reviewController.UpdateReview)
		reviews.DELETE("/:id", authenticate, reviewController.DeleteReview)
	}

	promotions := api.Group("/promotions")
	{
		promotions.GET("", promotionController.GetPromotions)
		promotions.GET("/:id", promotionController.GetPromotion)
		promotions.POST("/validate", promotionController.ValidatePromotion)
		promotions.POST("", authenticate, adminOnly, promotionController.CreatePromotion)
		promotions.PUT("/:id", authenticate, adminOnly, promotionController.UpdatePromotion)
		promotions.DELETE("/:id", authenticate, adminOnly, promotionController.DeletePromotion)
	}

	api.GET("/dashboard", authenticate, middleware.RequireStaff(), dashboardController.GetDashboardOverview)

	reminders := api.Group("/reminders", authenticate, adminOnly)
	{
		reminders.GET("/template", reminderController.GetReminderTemplate)
		reminders.PUT("/template", reminderController.UpdateReminderTemplate)
		reminders.GET("/logs", reminderController.GetReminderLogs)
		reminders.POST("/send", reminderController.SendReminders)
	}

	return r
}
