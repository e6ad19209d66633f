package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/bananaviral/bananaviral-backend/internal/adapter/handler/http"
	"github.com/bananaviral/bananaviral-backend/internal/config"
	"github.com/bananaviral/bananaviral-backend/internal/domain/provider"
	"github.com/bananaviral/bananaviral-backend/internal/infrastructure/database"
	"github.com/bananaviral/bananaviral-backend/internal/middleware/auth"
	"github.com/bananaviral/bananaviral-backend/internal/usecase"
	"github.com/bananaviral/bananaviral-backend/pkg/logger"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	images provider.ImageProvider
}

// requestValidator adapts go-playground/validator to Echo
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, images provider.ImageProvider) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
		images: images,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize services
	entitlementService := usecase.NewEntitlementService(s.repos.Profile, usecase.VariantMapping{
		StarterVariantID: s.config.Service.LemonSqueezy.StarterVariantID,
		CreatorVariantID: s.config.Service.LemonSqueezy.CreatorVariantID,
	}, s.logger)
	generationService := usecase.NewGenerationService(s.repos.Profile, s.repos.Generation, s.images, s.logger)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.LemonSqueezy.WebhookSecret, entitlementService, s.repos.WebhookEvent)
	plansHandler := handlers.NewPlansHandler(s.logger, s.repos.Plan)
	profileHandler := handlers.NewProfileHandler(s.logger, s.repos.Profile)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, s.repos.Plan)
	generationHandler := handlers.NewGenerationHandler(generationService, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.Supabase.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
			"/api/v1/plans",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Public routes (no authentication required)
	v1.GET("/plans", plansHandler.GetPlans)

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/checkout", checkoutHandler.CreateCheckout)
	protected.POST("/thumbnails", generationHandler.GenerateThumbnail)
	protected.GET("/thumbnails", generationHandler.GetHistory)

	// Internal/Debug routes
	if s.config.Service.Environment != "production" {
		internal := v1.Group("/internal", auth.JWTMiddleware(jwtConfig))
		internal.GET("/webhook-data", webhookHandler.GetWebhookData)
	}

	// Webhook route (outside API versioning; authenticated by its HMAC
	// signature, never by a session)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
