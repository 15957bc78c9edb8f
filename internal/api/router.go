package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"booking-scheduler-backend/config"
	"booking-scheduler-backend/internal/auth"
	"booking-scheduler-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, tokens *auth.Tokens, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	requireHost := auth.RequireHost(tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", requireHost, h.Me)

		links := api.Group("/links")
		links.GET("/:linkId", h.cache.Middleware(publicLinkKey), h.GetPublicLink)
		links.POST("", requireHost, h.CreateLink)
		links.GET("", requireHost, h.ListLinks)
		links.DELETE("/:linkId", requireHost, h.DeactivateLink)

		availability := api.Group("/availability", requireHost)
		availability.GET("", h.ListWindows)
		availability.POST("", h.CreateWindow)
		availability.PUT("/:id", h.UpdateWindow)
		availability.DELETE("/:id", h.DeleteWindow)

		bookings := api.Group("/bookings")
		bookings.GET("/available/:linkId", h.cache.Middleware(slotsKey), h.GetAvailableSlots)
		bookings.POST("", h.CreateBooking)
		bookings.GET("", requireHost, h.ListBookings)
		bookings.POST("/:id/cancel", requireHost, h.CancelBooking)

		push := api.Group("/push")
		push.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		push.PUT("/subscription", requireHost, h.PutSubscription)
		push.DELETE("/subscription", requireHost, h.DeleteSubscription)
	}

	return r
}
