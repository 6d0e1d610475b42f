// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rewear/internal/cache"
	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/repository"
	"rewear/internal/service"
	"rewear/internal/webhook"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo   repository.UserRepository
	itemRepo   repository.ItemRepository
	swapRepo   repository.SwapRepository
	tokenRepo  repository.TokenRepository
	reportRepo repository.ReportRepository
	likeRepo   repository.LikeRepository
	avatarRepo repository.AvatarRepository

	itemService   *service.ItemService
	swapService   *service.SwapService
	userService   *service.UserService
	reportService *service.ReportService
	likeService   *service.LikeService
	avatarService *service.AvatarService
	mediaService  *service.MediaService

	webhookVerifier *webhook.Verifier
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("rewear-api"),
		userRepo:       repository.NewUserRepository(db),
		itemRepo:       repository.NewItemRepository(db),
		swapRepo:       repository.NewSwapRepository(db),
		tokenRepo:      repository.NewTokenRepository(db),
		reportRepo:     repository.NewReportRepository(db),
		likeRepo:       repository.NewLikeRepository(db),
		avatarRepo:     repository.NewAvatarRepository(db),
	}

	server.mediaService = service.NewMediaService(cfg)
	server.itemService = service.NewItemService(server.itemRepo, server.mediaService)
	server.swapService = service.NewSwapService(server.swapRepo, server.itemRepo)
	server.userService = service.NewUserService(server.userRepo, server.itemRepo, server.swapRepo, server.tokenRepo)
	server.reportService = service.NewReportService(server.reportRepo, server.itemRepo)
	server.likeService = service.NewLikeService(server.likeRepo, server.itemRepo)
	server.avatarService = service.NewAvatarService(server.avatarRepo)

	if cfg.WebhookSecret != "" {
		verifier, err := webhook.NewVerifier(cfg.WebhookSecret)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook secret: %w", err)
		}
		server.webhookVerifier = verifier
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// After requestid and context middleware so entries carry both.
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limit (per IP).
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Processed listing images. When media is fronted by a CDN the base URL is
	// absolute and nothing is served from this process.
	if strings.HasPrefix(s.config.MediaBaseURL, "/") {
		app.Static(s.config.MediaBaseURL, s.mediaService.UploadDir())
	}

	// Auth provider webhook; verified by signature, not by user auth.
	api.Post("/webhooks/auth", s.HandleAuthWebhook)

	// Public browse/search. Swapped and deleted items never surface here for
	// anonymous callers; signed-in callers get like state via optional auth.
	publicItems := api.Group("/items")
	publicItems.Get("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "browse_items"), s.GetItems)
	publicItems.Get("/:id", s.GetItem)

	// Account routes. Registered ahead of the public profile route so the
	// literal "me" segment is never captured as an :id.
	me := api.Group("/users/me", s.AuthRequired())
	me.Get("/", s.GetMyProfile)
	me.Put("/", s.UpdateMyProfile)
	me.Get("/dashboard", s.GetMyDashboard)
	me.Get("/tokens", s.GetMyTokens)
	me.Get("/likes", s.GetMyLikes)
	me.Get("/avatar", s.GetMyAvatar)
	me.Post("/avatar", s.SaveMyAvatar)

	// Public profiles.
	api.Get("/users/:id", s.GetUserProfile)

	protected := api.Group("", s.AuthRequired())

	items := protected.Group("/items")
	items.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_item"), s.CreateItem)
	// Specific /:id/:resource routes BEFORE generic /:id routes.
	items.Post("/:id/like", s.ToggleLike)
	items.Post("/:id/reports", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "report_item"), s.CreateReport)
	items.Put("/:id", s.UpdateItem)
	items.Delete("/:id", s.DeleteItem)

	swaps := protected.Group("/swaps")
	swaps.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_swap"), s.CreateSwap)
	swaps.Get("/", s.GetSwaps)
	swaps.Get("/:id", s.GetSwap)
	swaps.Patch("/:id", s.ActOnSwap)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/users", s.GetAdminUsers)
	admin.Get("/items/flagged", s.GetFlaggedItems)
	admin.Get("/reports", s.GetReports)
	admin.Patch("/reports/:id", s.ReviewReport)
	admin.Post("/items/:id/restore", s.RestoreItem)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis degrades caching and rate limits but not correctness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired verifies the auth provider's bearer token and resolves the
// external subject to a local user. The resolved user ID travels explicitly
// via locals and the request context; nothing downstream reads ambient auth
// state.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		externalID, err := s.verifyBearer(c.Get("Authorization"))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		user, err := s.userRepo.GetByExternalID(c.UserContext(), externalID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unknown user"))
		}
		if user.Status == models.UserStatusBanned || user.Status == models.UserStatusSuspended {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Account is disabled"))
		}

		c.Locals("userID", user.ID)
		c.Locals("userRole", user.Role)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired rejects non-admin users with 403. Must run after
// AuthRequired so the role is in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		if role != models.UserRoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// verifyBearer validates the provider JWT and returns its subject (the
// external user ID).
func (s *Server) verifyBearer(authHeader string) (string, error) {
	if authHeader == "" {
		return "", models.NewUnauthorizedError("Authorization required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", models.NewUnauthorizedError("Authorization required")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.AuthJWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewUnauthorizedError("Invalid token claims")
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != s.config.AuthIssuer {
		return "", models.NewUnauthorizedError("Invalid token issuer")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", models.NewUnauthorizedError("Invalid subject claim")
	}
	return sub, nil
}

// optionalUserID resolves the caller's local user ID from the Authorization
// header without enforcing it. Public browse uses this to compute like state.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	externalID, err := s.verifyBearer(c.Get("Authorization"))
	if err != nil {
		return 0, false
	}
	user, err := s.userRepo.GetByExternalID(c.UserContext(), externalID)
	if err != nil || user == nil {
		return 0, false
	}
	return user.ID, true
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Rewear API",
		BodyLimit: 25 * 1024 * 1024, // room for multi-image listings
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
