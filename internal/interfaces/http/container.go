package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/velorie/ticketarchive/internal/application/transcript/usecases"
	"github.com/velorie/ticketarchive/internal/infrastructure/auth"
	"github.com/velorie/ticketarchive/internal/infrastructure/config"
	"github.com/velorie/ticketarchive/internal/infrastructure/metrics"
	"github.com/velorie/ticketarchive/internal/infrastructure/persistence"
	"github.com/velorie/ticketarchive/internal/infrastructure/ratelimit"
	"github.com/velorie/ticketarchive/internal/infrastructure/render"
	"github.com/velorie/ticketarchive/internal/interfaces/http/handlers"
	transcripthandlers "github.com/velorie/ticketarchive/internal/interfaces/http/handlers/transcript"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

// ContainerOptions tune construction for the server command and tests.
type ContainerOptions struct {
	AutoMigrate bool
	// Now overrides the renderer clock.
	Now func() time.Time
}

// Container holds the store, services, use cases and handlers, wires them
// together and releases them on Shutdown.
type Container struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	opts   ContainerOptions

	// Core infrastructure
	store       *persistence.TranscriptStore
	redis       *redis.Client
	metrics     *metrics.Metrics
	rateLimiter ratelimit.RateLimiter

	// Services
	verifier *auth.SecretVerifier
	renderer *render.Renderer

	// Use cases
	submitTranscriptUC *usecases.SubmitTranscriptUseCase
	viewTranscriptUC   *usecases.ViewTranscriptUseCase

	// Handlers
	transcriptHandler *transcripthandlers.Handler
	healthHandler     *handlers.HealthHandler
}

// NewContainer creates a Container with all dependencies wired together.
// On error everything opened so far is released.
func NewContainer(ctx context.Context, cfg *config.Config, opts ContainerOptions, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
		opts:   opts,
	}

	if err := c.initInfrastructure(ctx); err != nil {
		_ = c.Shutdown(context.Background())
		return nil, err
	}
	if err := c.initServices(); err != nil {
		_ = c.Shutdown(context.Background())
		return nil, err
	}
	c.initUseCases()
	c.initHandlers()

	return c, nil
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown closes the store and the Redis client.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := stderrors.Join(errs...); err != nil {
		c.log.Errorw("failed to release resources", "error", err)
		return err
	}
	c.log.Infow("resources released")
	return nil
}
