package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cinetix/api/routes"
	"cinetix/internal/bookings"
	"cinetix/internal/holds"
	"cinetix/internal/notifications"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/pkg/logger"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to connect to storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Kafka is optional; the booking flow works without it.
	var producer *notifications.Producer
	if cfg.Kafka.Enabled {
		producer, err = notifications.NewProducer(cfg.Kafka)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka producer, continuing without notifications", slog.Any("error", err))
			producer = nil
		} else {
			defer producer.Close()
			appLogger.Info("Kafka notification producer initialized",
				slog.Any("brokers", cfg.Kafka.Brokers),
				slog.String("topic", cfg.Kafka.Topic))
		}
	}

	// The hold manager owns the booking countdown: holds survive process
	// restarts via redis, tick every second, and expire after the TTL.
	emitter := holds.NewEventEmitter()
	tracker := holds.NewRouteTracker()

	var holdPublisher holds.EventPublisher
	var bookingPublisher bookings.EventPublisher
	if producer != nil {
		holdPublisher = producer
		bookingPublisher = producer
	}

	holdManager := holds.NewManager(holds.Deps{
		Store:        holds.NewRedisStore(db.GetRedisClient(), cfg.Holds.StorageKey),
		Notifier:     holds.NewStreamNotifier(emitter, holdPublisher),
		Navigator:    holds.NewStreamNavigator(emitter),
		Locator:      tracker,
		Policy:       holds.PathPrefixPolicy(cfg.Holds.CriticalRoutePrefixes...),
		Logger:       appLogger,
		TTL:          cfg.Holds.TTL,
		TickInterval: cfg.Holds.TickInterval,
		HomeRoute:    cfg.Holds.HomeRoute,
	})

	holdCtx, holdCancel := context.WithCancel(context.Background())
	defer holdCancel()

	if err := holdManager.Init(holdCtx); err != nil {
		appLogger.Error("Failed to initialize hold manager", slog.Any("error", err))
	}
	holdManager.Start(holdCtx)
	defer holdManager.Dispose()

	engine := setupEngine(cfg, db, holdManager, emitter, tracker, bookingPublisher)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("version", cfg.APIVersion),
			slog.Duration("hold_ttl", cfg.Holds.TTL),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("kafka", producer != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, db *database.DB, holdManager *holds.Manager,
	emitter *holds.EventEmitter, tracker *holds.RouteTracker, publisher bookings.EventPublisher) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRouter := routes.NewRouter(cfg, db, holdManager, emitter, tracker, publisher)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
