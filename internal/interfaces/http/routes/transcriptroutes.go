package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	transcripthandlers "github.com/velorie/ticketarchive/internal/interfaces/http/handlers/transcript"
	"github.com/velorie/ticketarchive/internal/interfaces/http/middleware"
)

type TranscriptRouteConfig struct {
	Handler        *transcripthandlers.Handler
	RateLimit      gin.HandlerFunc
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// SetupTranscriptRoutes registers ingest under /api and the public page at
// the root. Everything operational lives under /api so no route can shadow a
// transcript identifier.
func SetupTranscriptRoutes(engine *gin.Engine, config *TranscriptRouteConfig) {
	limit := config.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	api := engine.Group("/api")
	api.Use(middleware.CORS(config.AllowedOrigins))
	{
		api.OPTIONS("/ticket", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		api.POST("/ticket",
			limit,
			middleware.BodyLimit(config.MaxBodyBytes),
			config.Handler.Submit)
	}

	engine.GET("/:id", limit, config.Handler.View)
	engine.HEAD("/:id", limit, config.Handler.View)
}
