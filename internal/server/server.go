// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"studyhall/internal/cache"
	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/featureflags"
	"studyhall/internal/middleware"
	"studyhall/internal/models"
	"studyhall/internal/ratelimit"
	"studyhall/internal/repository"
	"studyhall/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	governor       *ratelimit.Governor
	featureFlags   *featureflags.Manager
	userRepo       repository.UserRepository
	userService    *service.UserService
	topicService   *service.TopicService
	postService    *service.PostService
	commentService *service.CommentService
	voteService    *service.VoteService
	reportService  *service.ReportService
	savedService   *service.SavedPostService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	savedRepo := repository.NewSavedPostRepository(db)

	prom := middleware.InitMetrics("studyhall-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		governor:       ratelimit.NewGovernor(ratelimit.ParseLimits(cfg.RateLimits)),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       userRepo,
		userService:    service.NewUserService(userRepo),
		topicService:   service.NewTopicService(topicRepo),
		postService:    service.NewPostService(postRepo, topicRepo),
		commentService: service.NewCommentService(db, commentRepo, postRepo),
		voteService:    service.NewVoteService(db),
		reportService:  service.NewReportService(db),
		savedService:   service.NewSavedPostService(savedRepo, postRepo),
	}

	middleware.InitMiddleware(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Coarse per-IP flood protection. The per-class governor runs on the
	// routes themselves and is the behavior-level control; this outer
	// limiter only blunts raw request floods.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
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
	govern := func(class ratelimit.Class) fiber.Handler {
		return middleware.Govern(s.governor, class)
	}

	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if s.featureFlags.Enabled(featureflags.FlagMonitorDashboard, 0) {
		api.Get("/metrics/dashboard", monitor.New(monitor.Config{
			Title: "Studyhall Metrics Dashboard",
		}))
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", govern(ratelimit.ClassRegistration), s.Signup)
	auth.Post("/login", govern(ratelimit.ClassLogin), s.Login)
	auth.Post("/refresh", middleware.AuthRequired, s.Refresh)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	// Public topic routes
	topics := api.Group("/topics")
	topics.Get("/", s.GetTopics)
	topics.Get("/:slug", s.GetTopicBySlug)
	topics.Get("/:slug/posts", middleware.OptionalAuth, s.GetTopicPosts)

	// Public post routes. OptionalAuth lets the visibility resolver
	// recognize authors and admins on read paths.
	publicPosts := api.Group("/posts", middleware.OptionalAuth)
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id/votes", s.GetPostVotes)
	publicPosts.Get("/:id", s.GetPost)

	api.Get("/comments/:id/votes", middleware.OptionalAuth, s.GetCommentVotes)

	// Public user routes
	api.Get("/users/:id/posts", middleware.OptionalAuth, s.GetUserPosts)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	protected.Post("/topics", govern(ratelimit.ClassContentCreate), s.CreateTopic)

	posts := protected.Group("/posts")
	posts.Post("/", govern(ratelimit.ClassContentCreate), s.CreatePost)
	posts.Post("/:id/comments", govern(ratelimit.ClassContentCreate), s.CreateComment)
	posts.Post("/:id/save", govern(ratelimit.ClassSave), s.SavePost)
	posts.Delete("/:id/save", govern(ratelimit.ClassSave), s.UnsavePost)
	posts.Put("/:id", govern(ratelimit.ClassContentUpdate), s.UpdatePost)
	posts.Delete("/:id", govern(ratelimit.ClassContentDelete), s.DeletePost)

	protected.Delete("/comments/:id", govern(ratelimit.ClassContentDelete), s.DeleteComment)

	// Vote ledger
	votes := protected.Group("/votes")
	votes.Post("/", govern(ratelimit.ClassVote), s.CastVote)
	votes.Delete("/:id", govern(ratelimit.ClassVote), s.RetractVote)

	// Report intake
	protected.Post("/reports", govern(ratelimit.ClassReport), s.CreateReport)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/saved", s.GetSavedPosts)
	api.Get("/users/:id", s.GetUserProfile)

	// Admin moderation surface
	admin := protected.Group("/admin", middleware.AdminRequired)
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Put("/users/:id/role", s.SetUserRole)
	reports := admin.Group("/reports")
	reports.Get("/", s.GetReports)
	reports.Get("/:id", s.GetReport)
	reports.Post("/:id/unsuppress", s.UnsuppressReported)
	reports.Post("/:id/dismiss", s.DismissReports)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database is
// required; Redis is a cache and only degrades readiness to a warning.
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Studyhall API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Expired rate windows accumulate between requests; reap them on a
	// fixed cadence.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.governor.Sweep()
		}
	}()

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
