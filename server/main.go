package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nexusems/api/routes"
	"nexusems/internal/notifications"
	"nexusems/internal/shared/config"
	"nexusems/internal/shared/database"
	"nexusems/pkg/logger"
	"nexusems/pkg/metrics"
	"nexusems/pkg/ratelimit"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("no .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// InitDB runs the automigrations before returning.
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Outbound mail: real SMTP when configured, log-only otherwise.
	var mailer notifications.Mailer
	if smtpMailer, err := notifications.NewSMTPMailer(cfg.SMTP); err == nil {
		mailer = smtpMailer
		appLogger.Info("SMTP mailer configured", slog.String("host", cfg.SMTP.Host))
	} else {
		mailer = notifications.NewLogMailer()
		appLogger.Info("SMTP not configured, emails go to the log", slog.Any("reason", err))
	}

	// Optional Kafka bus for async notifications. Spot-available emails
	// bypass it; account and booking mail ride the bus when it is up.
	var producer notifications.Producer
	var consumer *notifications.KafkaConsumer
	if cfg.Kafka.Enabled {
		kafkaProducer, err := notifications.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			appLogger.Error("failed to create notification producer, falling back to direct sends",
				slog.Any("error", err))
		} else {
			producer = kafkaProducer
			defer kafkaProducer.Close()

			consumer, err = notifications.NewKafkaConsumer(cfg.Kafka, mailer)
			if err != nil {
				appLogger.Error("failed to create notification consumer", slog.Any("error", err))
			} else {
				consumer.Start(context.Background())
				defer func() {
					if err := consumer.Stop(); err != nil {
						appLogger.Error("error stopping notification consumer", slog.Any("error", err))
					}
				}()
			}
		}
	}

	notifier := notifications.NewService(mailer, producer, cfg)

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), cfg.RateLimit)
		appLogger.Info("rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	}

	router := setupRouter(cfg, db, notifier, rateLimiter)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, notifier *notifications.Service, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())
	engine.Use(metrics.HTTPMiddleware())

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

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, notifier)
	appRouter.SetupRoutes(engine)

	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
