// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"strings"
	"time"

	"checkinn/internal/config"
	"checkinn/internal/handlers"
	"checkinn/internal/middleware"
	"checkinn/internal/models"
	"checkinn/internal/services/admin"
	"checkinn/internal/services/auth"
	"checkinn/internal/services/booking"
	"checkinn/internal/services/hotel"
	"checkinn/internal/services/partner"
	"checkinn/internal/services/review"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies carries everything the routes need from main.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	AuthMiddleware *middleware.AuthMiddleware
	Validator      *validation.Validator
	Gatherer       prometheus.Gatherer

	AuthService    auth.Service
	PartnerService partner.Service
	AdminService   admin.Service
	HotelService   hotel.Service
	BookingService booking.Service
	ReviewService  review.Service

	Database handlers.Checker
	Cache    handlers.Checker
	Pool     handlers.PoolStatser
}

// SetupMiddleware installs the app-wide middleware stack.
func SetupMiddleware(app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: !strings.Contains(cfg.CORSOrigins, "*"),
	}))

	app.Use("/api/auth/register", rateLimiter(cfg.AuthRateLimit, cfg.RateLimitWindow))
	app.Use("/api/auth/login", rateLimiter(cfg.AuthRateLimit, cfg.RateLimitWindow))
	app.Use("/api", rateLimiter(cfg.APIRateLimit, cfg.RateLimitWindow))
}

func rateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	})
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	secureCookie := deps.Config.IsProduction()

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Validator, secureCookie, deps.Config.RefreshTokenTTL)
	partnerHandler := handlers.NewPartnerHandler(deps.PartnerService, deps.Validator)
	adminHandler := handlers.NewAdminHandler(deps.AdminService)
	hotelHandler := handlers.NewHotelHandler(deps.HotelService, deps.Validator)
	bookingHandler := handlers.NewBookingHandler(deps.BookingService, deps.Validator)
	reviewHandler := handlers.NewReviewHandler(deps.ReviewService, deps.Validator)
	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Cache, deps.Pool)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to CheckInn API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", healthHandler.HealthCheck)
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	authenticated := deps.AuthMiddleware.Handler

	setupAuthRoutes(api, authHandler, authenticated)
	setupPartnerRoutes(api, partnerHandler, hotelHandler, bookingHandler, authenticated)
	setupAdminRoutes(api, adminHandler, healthHandler, authenticated)
	setupHotelRoutes(api, hotelHandler, reviewHandler, authenticated)
	setupBookingRoutes(api, bookingHandler, authenticated)

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}

func setupAuthRoutes(api fiber.Router, h *handlers.AuthHandler, authenticated fiber.Handler) {
	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/refresh", h.RefreshToken)
	authGroup.Post("/logout", authenticated, h.Logout)
	authGroup.Get("/me", authenticated, h.Me)
	authGroup.Put("/password", authenticated, h.ChangePassword)
}

func setupPartnerRoutes(api fiber.Router, h *handlers.PartnerHandler, hotels *handlers.HotelHandler, bookings *handlers.BookingHandler, authenticated fiber.Handler) {
	// Public lookup for applicants who are not verified yet.
	api.Get("/partner/application-status/:email", h.ApplicationStatus)

	applications := api.Group("/partner/applications", authenticated, middleware.AdminOnly())
	applications.Get("/", h.ListApplications)
	applications.Get("/:id", h.GetApplication)
	applications.Patch("/:id/approve", h.Approve)
	applications.Patch("/:id/reject", h.Reject)
	applications.Patch("/:id/suspend", h.Suspend)

	// Onboarding stays reachable while the application is under review.
	partnerOnly := middleware.RequireRoles(models.RoleHotelPartner)
	api.Get("/partner/profile", authenticated, partnerOnly, h.Profile)
	onboarding := api.Group("/partner/onboarding", authenticated, partnerOnly)
	onboarding.Put("/business-info", h.UpdateBusinessInfo)
	onboarding.Put("/bank-info", h.UpdateBankInfo)
	onboarding.Put("/documents", h.UpdateDocuments)

	verified := []fiber.Handler{authenticated, partnerOnly, middleware.CheckPartnerVerified()}

	partnerHotels := api.Group("/partner/hotels", verified...)
	partnerHotels.Get("/", hotels.ListMyHotels)
	partnerHotels.Post("/", hotels.CreateHotel)
	partnerHotels.Put("/:id", hotels.UpdateHotel)
	partnerHotels.Delete("/:id", hotels.DeleteHotel)
	partnerHotels.Post("/:id/rooms", hotels.CreateRoom)

	partnerRooms := api.Group("/partner/rooms", verified...)
	partnerRooms.Put("/:roomId", hotels.UpdateRoom)
	partnerRooms.Delete("/:roomId", hotels.DeleteRoom)

	api.Get("/partner/bookings", append(verified, bookings.ListForPartner)...)
}

func setupAdminRoutes(api fiber.Router, h *handlers.AdminHandler, health *handlers.HealthHandler, authenticated fiber.Handler) {
	adminGroup := api.Group("/admin", authenticated, middleware.AdminOnly())
	adminGroup.Get("/stats", h.Stats)
	adminGroup.Get("/cache-stats", health.CacheStats)

	users := adminGroup.Group("/users")
	users.Get("/", h.ListUsers)
	users.Get("/:id", h.GetUser)
	users.Patch("/:id/status", h.UpdateStatus)
	users.Put("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)
}

func setupHotelRoutes(api fiber.Router, h *handlers.HotelHandler, reviews *handlers.ReviewHandler, authenticated fiber.Handler) {
	hotels := api.Group("/hotels")
	hotels.Get("/", h.ListHotels)
	hotels.Get("/:id", h.GetHotel)
	hotels.Get("/:id/rooms", h.ListRooms)
	hotels.Get("/:id/reviews", reviews.List)
	hotels.Post("/:id/reviews", authenticated, middleware.RequireRoles(models.RoleCustomer), reviews.Create)
}

func setupBookingRoutes(api fiber.Router, h *handlers.BookingHandler, authenticated fiber.Handler) {
	api.Get("/rooms/:id/availability", h.Availability)

	bookings := api.Group("/bookings", authenticated)
	bookings.Post("/", middleware.RequireRoles(models.RoleCustomer), h.Create)
	bookings.Get("/my", h.ListMine)
	bookings.Get("/:id", h.Get)
	bookings.Patch("/:id/cancel", middleware.RequireRoles(models.RoleCustomer), h.Cancel)
}
