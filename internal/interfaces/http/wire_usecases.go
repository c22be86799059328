package http

import (
	"context"

	"github.com/velorie/ticketarchive/internal/application/transcript/usecases"
	"github.com/velorie/ticketarchive/internal/interfaces/http/handlers"
	transcripthandlers "github.com/velorie/ticketarchive/internal/interfaces/http/handlers/transcript"
)

func (c *Container) initUseCases() {
	c.submitTranscriptUC = usecases.NewSubmitTranscriptUseCase(
		c.store.Repository,
		c.verifier,
		&c.cfg.Server,
		c.log.Named("submit"),
	)
	c.viewTranscriptUC = usecases.NewViewTranscriptUseCase(
		c.store.Repository,
		c.renderer,
		c.log.Named("view"),
	)
}

func (c *Container) initHandlers() {
	var observer transcripthandlers.Observer
	if c.metrics != nil {
		observer = c.metrics
	}
	c.transcriptHandler = transcripthandlers.NewHandler(
		c.submitTranscriptUC,
		c.viewTranscriptUC,
		observer,
		c.log,
	)

	checks := map[string]handlers.Pinger{"storage": c.store.Health}
	if c.redis != nil {
		checks["redis"] = handlers.PingerFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		})
	}
	c.healthHandler = handlers.NewHealthHandler(checks, c.log)
}
