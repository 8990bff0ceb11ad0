package routes

import (
	"time"

	"evcharge/handlers"
	"evcharge/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)
		api.POST("/forgot-password", hb.ForgotPasswordHandler)
		api.POST("/reset-password", hb.ResetPasswordHandler)
		api.POST("/renew-token", hb.RenewTokenHandler)
		api.POST("/validate-token", hb.ValidateTokenHandler)

		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/me", hb.GetProfileHandler)
		api.PUT("/me", hb.UpdateProfileHandler)
		api.DELETE("/me", hb.DeleteAccountHandler)
		api.PUT("/push-token", hb.UpdatePushTokenHandler)
	}
}

// RegisterStationRoutes registers the station directory endpoints. Reads
// are public; mutations require the admin token.
func RegisterStationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/stations")
	{
		api.GET("", hb.ListStationsHandler)
		api.GET("/nearby", hb.NearbyStationsHandler)
		api.GET("/:id", hb.GetStationHandler)
		api.GET("/:id/slots", hb.ListBookedSlotsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthAdminMiddleware())
		protected.POST("", hb.CreateStationHandler)
		protected.PUT("/:id", hb.UpdateStationHandler)
		protected.DELETE("/:id", hb.DeleteStationHandler)
		protected.POST("/:id/points", hb.AddChargingPointHandler)
		protected.DELETE("/:id/points/:pointId", hb.RemoveChargingPointHandler)
	}
}

// RegisterBookingRoutes registers the reservation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/payment-intent", hb.CreatePaymentIntentHandler)
		api.POST("/confirm", hb.ConfirmBookingHandler)
		api.POST("/verify-slot", hb.VerifySlotHandler)
		api.GET("", hb.ListBookingsHandler)
		api.DELETE("/:id", hb.CancelBookingHandler)
	}
}

// RegisterAdminRoutes registers operator endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthAdminMiddleware())
		api.POST("/stations/:id/rebuild-index", hb.RebuildStationIndexHandler)
		api.POST("/notifications/broadcast", hb.BroadcastNotificationHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and global
// middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, hb)
	RegisterStationRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
