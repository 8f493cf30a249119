package routes

import (
	"time"

	"hotelops/config"
	"hotelops/handlers"
	"hotelops/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the middleware collaborators shared by route groups.
type Dependencies struct {
	Config      *config.Config
	Auth        middleware.Authenticator
	Idempotency middleware.IdempotencyStore
	Logger      *zap.Logger
}

// RegisterReservationRoutes registers booking endpoints. Reserve honours an
// Idempotency-Key header when a store is configured.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Dependencies) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(deps.Auth, deps.Logger))
	{
		reserve := []gin.HandlerFunc{hb.ReserveHandler}
		if deps.Idempotency != nil {
			reserve = append([]gin.HandlerFunc{middleware.Idempotency(deps.Idempotency, deps.Config.IdempotencyTTL, deps.Logger)}, reserve...)
		}
		api.POST("/reservations", reserve...)
		api.GET("/reservations/:id", hb.GetReservationHandler)
		api.PATCH("/reservations/:id/status", hb.UpdateStatusHandler)

		api.GET("/rooms/available", hb.AvailableRoomsHandler)
		api.GET("/guests/:id/reservations", hb.GuestReservationsHandler)

		api.PATCH("/billing/:id/pay", hb.MarkPaidHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Dependencies) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "token", middleware.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", middleware.ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterReservationRoutes(r, hb, deps)
}
