// Package http assembles the gin engine: middleware, routes and the
// dependencies behind them.
package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/velorie/ticketarchive/internal/interfaces/http/middleware"
	"github.com/velorie/ticketarchive/internal/interfaces/http/routes"

	_ "github.com/velorie/ticketarchive/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter wraps a container whose dependencies are already wired.
func NewRouter(c *Container) *Router {
	return &Router{Container: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() error {
	if err := r.engine.SetTrustedProxies(r.cfg.Server.TrustedProxies); err != nil {
		return err
	}

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.Logger(r.log))
	if r.metrics != nil {
		r.engine.Use(middleware.Metrics(r.metrics))
	}
	r.engine.Use(middleware.SecurityHeaders())

	r.setupOperationalRoutes()

	var limit gin.HandlerFunc
	if r.rateLimiter != nil {
		limit = middleware.RateLimit(r.rateLimiter, r.log)
	}
	routes.SetupTranscriptRoutes(r.engine, &routes.TranscriptRouteConfig{
		Handler:        r.transcriptHandler,
		RateLimit:      limit,
		MaxBodyBytes:   r.cfg.Server.MaxBodyBytes,
		AllowedOrigins: r.cfg.Server.AllowedOrigins,
	})

	r.engine.NoRoute(r.transcriptHandler.NotFound)
	return nil
}

// setupOperationalRoutes registers health, metrics and API docs under /api.
func (r *Router) setupOperationalRoutes() {
	api := r.engine.Group("/api")

	api.GET("/health", r.healthHandler.HealthCheck)

	if r.metrics != nil {
		api.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	if r.cfg.Server.EnableDocs || r.cfg.Server.Mode == gin.DebugMode {
		api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
