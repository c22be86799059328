package http

import (
	"context"

	"github.com/velorie/ticketarchive/internal/infrastructure/persistence"
	"github.com/velorie/ticketarchive/internal/infrastructure/ratelimit"
)

// initInfrastructure opens the transcript store and, when enabled, Redis.
func (c *Container) initInfrastructure(ctx context.Context) error {
	store, err := persistence.OpenTranscriptStore(ctx, c.cfg, persistence.StoreOptions{
		AutoMigrate: c.opts.AutoMigrate,
	}, c.log)
	if err != nil {
		return err
	}
	c.store = store

	if c.cfg.Redis.Enabled {
		client, err := ratelimit.NewRedisClient(ctx, &c.cfg.Redis, c.log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	return nil
}
