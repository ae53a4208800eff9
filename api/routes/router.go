package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinetix/internal/auth"
	"cinetix/internal/bookings"
	"cinetix/internal/cinemas"
	"cinetix/internal/coupons"
	"cinetix/internal/holds"
	"cinetix/internal/movies"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/internal/showtimes"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"
	"cinetix/pkg/ratelimit"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	holdManager *holds.Manager
	emitter     *holds.EventEmitter
	tracker     *holds.RouteTracker
	publisher   bookings.EventPublisher
	log         *logger.Logger
}

// NewRouter creates a new router instance. The hold manager, emitter
// and tracker are built in main because their lifecycle outlives any
// single request.
func NewRouter(cfg *config.Config, db *database.DB, holdManager *holds.Manager,
	emitter *holds.EventEmitter, tracker *holds.RouteTracker, publisher bookings.EventPublisher) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		holdManager: holdManager,
		emitter:     emitter,
		tracker:     tracker,
		publisher:   publisher,
		log:         logger.GetDefault(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	rateLimiter := ratelimit.NewRateLimiter(r.db.GetRedisClient(), &ratelimit.Config{
		Enabled:         r.config.RateLimit.Enabled,
		WindowDuration:  r.config.RateLimit.WindowDuration,
		DefaultRequests: r.config.RateLimit.DefaultRequests,
		PublicRequests:  r.config.RateLimit.PublicRequests,
		AuthRequests:    r.config.RateLimit.AuthRequests,
		BookingRequests: r.config.RateLimit.BookingRequests,
		AdminRequests:   r.config.RateLimit.AdminRequests,
		WhitelistedIPs:  r.config.RateLimit.WhitelistedIPs,
	})

	api := engine.Group(r.config.GetAPIBasePath())
	api.Use(ratelimit.Middleware(rateLimiter))
	{
		cacheService := cache.NewService(r.db.GetRedisClient())

		// Auth
		authRepo := auth.NewRepository(r.db.GetPostgreSQL())
		authService := auth.NewService(authRepo, r.config)
		auth.SetupAuthRoutes(api, auth.NewController(authService))

		// Movies
		movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
		movieService := movies.NewService(movieRepo)
		movieService.SetCacheService(cacheService)
		movies.SetupMovieRoutes(api, movies.NewController(movieService))

		// Cinemas and rooms
		cinemaRepo := cinemas.NewRepository(r.db.GetPostgreSQL())
		cinemaService := cinemas.NewService(cinemaRepo)
		cinemas.SetupCinemaRoutes(api, cinemas.NewController(cinemaService))

		// Showtimes and seat locking
		locker := showtimes.NewSeatLocker(r.db.GetRedisClient())
		if err := locker.PreloadScripts(context.Background()); err != nil {
			r.log.Warn("Failed to preload seat lock scripts", "error", err)
		}
		showtimeRepo := showtimes.NewRepository(r.db.GetPostgreSQL())
		showtimeService := showtimes.NewService(showtimeRepo, cinemaRepo, locker)
		showtimes.SetupShowtimeRoutes(api, showtimes.NewController(showtimeService))

		// Coupons
		couponRepo := coupons.NewRepository(r.db.GetPostgreSQL())
		couponService := coupons.NewService(couponRepo)
		coupons.SetupCouponRoutes(api, coupons.NewController(couponService))

		// Bookings tie the seat locks, the coupon engine and the hold
		// manager together.
		bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
		bookingService := bookings.NewService(bookings.ServiceDeps{
			Repo:      bookingRepo,
			Showtimes: showtimeService,
			Seats:     cinemaRepo,
			Movies:    movieService,
			Coupons:   couponService,
			Locker:    locker,
			Holds:     r.holdManager,
			Publisher: r.publisher,
			HoldTTL:   r.config.Holds.TTL,
		})
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService))

		// The seat map needs to know which seats bookings already own.
		showtimeService.SetBookedSeatSource(bookingService)

		// Hold surface: countdown state, SSE stream, route pings, resume
		holds.SetupHoldRoutes(api, holds.NewController(r.holdManager, r.emitter, r.tracker))
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
				"service":   "cinetix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinetix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
