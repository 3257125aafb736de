// Package main is the entry point for the CheckInn API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkinn/internal/config"
	"checkinn/internal/handlers"
	"checkinn/internal/logger"
	"checkinn/internal/metrics"
	"checkinn/internal/middleware"
	"checkinn/internal/repositories"
	"checkinn/internal/repositories/cache"
	"checkinn/internal/routes"
	"checkinn/internal/services/admin"
	"checkinn/internal/services/auth"
	"checkinn/internal/services/booking"
	"checkinn/internal/services/hotel"
	"checkinn/internal/services/notification"
	"checkinn/internal/services/partner"
	"checkinn/internal/services/review"
	"checkinn/internal/utils"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	config.LoadEnv()
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := repositories.InitDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("database initialization failed", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			zlog.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	zlog.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	go logPoolStats(db, zlog)

	cacheService := connectCache(cfg, zlog)
	var userCache repositories.UserCache
	if cacheService != nil {
		userCache = cacheService
		defer func() {
			if err := cacheService.Close(); err != nil {
				zlog.Warn("failed to close redis connection", zap.Error(err))
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, userCache, zlog)
	hotelRepo := repositories.NewHotelRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	var mailer notification.Mailer
	if cfg.SMTPEnabled() {
		mailer = notification.NewSMTPMailer(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		zlog.Warn("SMTP is not configured, emails will only be logged")
		mailer = notification.NewLogMailer(zlog)
	}
	notifier := notification.NewService(mailer, zlog)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	deps := routes.Dependencies{
		Config:         cfg,
		Logger:         zlog,
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, userRepo, zlog),
		Validator:      validation.New(),
		Gatherer:       registry,

		AuthService:    auth.NewService(userRepo, tokens, notifier, m, zlog),
		PartnerService: partner.NewService(userRepo, notifier, m, zlog),
		AdminService:   admin.NewService(userRepo, hotelRepo, bookingRepo, m, zlog),
		HotelService:   hotel.NewService(hotelRepo, zlog),
		BookingService: booking.NewService(bookingRepo, hotelRepo, userRepo, notifier, m, zlog),
		ReviewService:  review.NewService(reviewRepo, bookingRepo, hotelRepo, zlog),

		Database: databaseChecker(db),
	}
	if cacheService != nil {
		deps.Cache = cacheService
		deps.Pool = cacheService
	}

	app := fiber.New(fiber.Config{
		AppName:      "CheckInn API",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return response.Error(c, fe.Code, fe.Message)
			}
			zlog.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			return response.ServerError(c)
		},
	})
	routes.SetupMiddleware(app, cfg, zlog)
	routes.SetupRoutes(app, deps)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	// Let queued emails go out before the connections close.
	notifier.Wait()
}

// connectCache returns nil when redis is unreachable; user lookups then go to postgres.
func connectCache(cfg *config.Config, zlog *zap.Logger) *cache.CacheService {
	client := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	service := cache.NewCacheService(client, cfg.UserCacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := service.HealthCheck(ctx); err != nil {
		zlog.Warn("redis unavailable, running without user cache", zap.Error(err))
		_ = service.Close()
		return nil
	}
	zlog.Info("connected to redis", zap.String("host", cfg.RedisHost))
	return service
}

func databaseChecker(db *gorm.DB) handlers.CheckerFunc {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// Add a periodic check of connection pool stats
func logPoolStats(db *gorm.DB, zlog *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		stats := sqlDB.Stats()
		zlog.Debug("db pool stats",
			zap.Int("open", stats.OpenConnections),
			zap.Int("idle", stats.Idle),
			zap.Int("in_use", stats.InUse),
			zap.Int64("wait_count", stats.WaitCount),
			zap.Duration("wait_duration", stats.WaitDuration))
	}
}
