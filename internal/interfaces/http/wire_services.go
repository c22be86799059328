package http

import (
	"github.com/velorie/ticketarchive/internal/infrastructure/auth"
	"github.com/velorie/ticketarchive/internal/infrastructure/metrics"
	"github.com/velorie/ticketarchive/internal/infrastructure/ratelimit"
	"github.com/velorie/ticketarchive/internal/infrastructure/render"
)

func (c *Container) initServices() error {
	c.verifier = auth.NewSecretVerifier(c.cfg.Auth)
	if !c.verifier.Configured() {
		c.log.Warnw("no API secret configured; every transcript submission will be rejected")
	}

	renderer, err := render.NewFromConfig(c.cfg.Render, c.opts.Now, c.log.Named("render"))
	if err != nil {
		return err
	}
	c.renderer = renderer

	if c.cfg.Metrics.Enabled {
		c.metrics = metrics.New()
	}

	if c.cfg.RateLimit.Enabled {
		c.rateLimiter = ratelimit.New(c.redis, c.cfg.RateLimit.RequestsPerMinute)
		backend := "memory"
		if c.redis != nil {
			backend = "redis"
		}
		c.log.Infow("rate limiting enabled",
			"backend", backend,
			"requests_per_minute", c.cfg.RateLimit.RequestsPerMinute)
	}

	return nil
}
