package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/api/handlers"
	"github.com/devpush/devpush/internal/api/middleware"
	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/github"
	"github.com/devpush/devpush/internal/metrics"
	"github.com/devpush/devpush/internal/monitor"
)

type Server struct {
	Config *config.Config
	Router *gin.Engine
}

func NewServer(cfg *config.Config, repo *db.Repository, tokens *github.TokenManager, mon *monitor.Service, collector *metrics.Collector, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	server := &Server{
		Config: cfg,
		Router: router,
	}

	h := handlers.NewHandler(repo, tokens, mon, collector, cfg, logger)
	authHandler := handlers.NewAuthHandler(repo, cfg)

	// Health and metrics
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// API routes (protected)
	api := router.Group("/api/v1")
	api.Use(middleware.AuthRequired(cfg.Auth.JWTSecret))
	{
		api.GET("/projects", h.ListProjects)
		api.POST("/projects", h.CreateProject)
		api.GET("/projects/:id", h.GetProject)
		api.PUT("/projects/:id", h.UpdateProject)
		api.DELETE("/projects/:id", h.DeleteProject)
		api.POST("/projects/:id/reactivate", h.ReactivateProject)
		api.GET("/projects/:id/deployments", h.ListDeployments)
		api.GET("/installations/:id/token", h.GetInstallationToken)
	}

	// Hooks (unauthenticated, rate limited)
	hooks := router.Group("/")
	hooks.Use(middleware.RateLimit(cfg.Server.HookRateLimit, cfg.Server.HookRateBurst))
	{
		hooks.POST("/webhooks/github", h.GithubWebhook)
		hooks.POST("/hooks/traffic", h.TrafficHook)
		hooks.POST("/hooks/deployments/:id/status", h.UpdateDeploymentStatus)
	}

	return server
}
