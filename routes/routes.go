package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/ridefare-backend/handlers"
	"github.com/fadhlanhapp/ridefare-backend/middleware"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, hs *handlers.HandlerServices) {
	handlers.InitHandlers(hs)

	v1 := router.Group("/api/v1")

	// Registration is the one endpoint without a bearer token: it issues one
	v1.POST("/auth/register", handlers.RegisterUser)

	authed := v1.Group("", middleware.RequireIdentity())
	{
		// Profile and role endpoints
		authed.GET("/profile", handlers.GetCallerProfile)
		authed.PUT("/profile", handlers.UpdateProfile)
		authed.GET("/profile/role", handlers.GetCallerRole)
		authed.GET("/users/:principal/profile", handlers.GetUserProfile)
		authed.GET("/drivers", handlers.GetAllDrivers)

		// Trip endpoints
		authed.POST("/trips", handlers.CreateTrip)
		authed.GET("/trips/open", handlers.GetOpenTrips)
		authed.GET("/trips/:id", handlers.GetTrip)
		authed.GET("/trips/driver/:principal", handlers.GetDriverTrips)
		authed.GET("/trips/passenger/:principal", handlers.GetPassengerTrips)
		authed.POST("/trips/:id/accept", handlers.AcceptTrip)
		authed.POST("/trips/:id/cancel", handlers.CancelTrip)
		authed.POST("/trips/:id/complete", handlers.CompleteTrip)

		// Earnings and payout endpoints
		authed.GET("/earnings", handlers.GetDriverEarnings)
		authed.POST("/payouts", handlers.RequestPayout)
		authed.GET("/payouts", handlers.GetPayoutHistory)

		// Admin endpoints
		admin := authed.Group("/admin")
		{
			admin.PUT("/trips/:id/status", handlers.AdminUpdateTripStatus)
			admin.GET("/payouts/pending", handlers.GetPendingPayouts)
			admin.PUT("/payouts/:id/status", handlers.UpdatePayoutStatus)
			admin.GET("/payouts/export", handlers.ExportPayoutStatement)
			admin.POST("/roles", handlers.AssignUserRole)
		}
	}
}
