package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexusems/internal/auth"
	"nexusems/internal/bookings"
	"nexusems/internal/discounts"
	"nexusems/internal/events"
	"nexusems/internal/notifications"
	"nexusems/internal/organizers"
	"nexusems/internal/shared/config"
	"nexusems/internal/shared/database"
	"nexusems/internal/tickets"
	"nexusems/internal/waitlist"
	"nexusems/pkg/cache"
	"nexusems/pkg/metrics"
)

// Router wires every feature module together and mounts its routes
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier *notifications.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Service) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/metrics", metrics.Handler())

	// Repositories and services, bottom up. The waitlist service sits on
	// top of events and tickets; bookings sits on top of everything.
	cacheService := cache.NewService(r.db.GetRedis())

	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, cacheService, r.config.Redis.CacheTTL)

	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	ticketService := tickets.NewService(ticketRepo)

	discountRepo := discounts.NewRepository(r.db.GetPostgreSQL())
	discountService := discounts.NewService(discountRepo)

	organizerRepo := organizers.NewRepository(r.db.GetPostgreSQL())
	organizerService := organizers.NewService(organizerRepo, r.notifier)

	authService := auth.NewService(organizerService, r.config)

	waitlistRepo := waitlist.NewRepository(r.db.GetPostgreSQL())
	waitlistService := waitlist.NewService(
		waitlistRepo, eventService, ticketService, r.notifier,
		r.config.Waitlist.BookingDeadline, r.config.Waitlist.LockTimeout)

	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(
		bookingRepo, eventService, ticketService, discountService,
		waitlistService, r.notifier)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		auth.SetupAuthRoutes(api, auth.NewController(authService))
		organizers.SetupOrganizerRoutes(api, organizers.NewController(organizerService))
		events.SetupEventRoutes(api, events.NewController(eventService))
		tickets.SetupTicketRoutes(api, tickets.NewController(ticketService))
		discounts.SetupDiscountRoutes(api, discounts.NewController(discountService))
		waitlist.SetupWaitlistRoutes(api, waitlist.NewController(waitlistService))
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "nexusems",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "nexusems",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
