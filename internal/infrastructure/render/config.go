package render

import (
	"fmt"
	"time"

	"github.com/velorie/ticketarchive/internal/shared/config"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

// NewFromConfig loads the template and timezone named in cfg and builds a
// Renderer. A nil now uses the wall clock.
func NewFromConfig(cfg config.RenderConfig, now func() time.Time, log logger.Interface) (*Renderer, error) {
	tmpl, err := LoadTemplate(cfg.TemplatePath, log)
	if err != nil {
		return nil, err
	}

	location := time.UTC
	if cfg.Timezone != "" {
		location, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid render.timezone %q: %w", cfg.Timezone, err)
		}
	}

	r, err := NewRenderer(Options{
		Template:          tmpl,
		Locale:            cfg.Locale,
		Location:          location,
		ContentFormat:     cfg.ContentFormat,
		AvatarFallbackURL: cfg.AvatarFallbackURL,
		Now:               now,
	})
	if err != nil {
		return nil, err
	}

	log.Infow("transcript renderer ready",
		"template", tmpl.Name(),
		"locale", cfg.Locale,
		"timezone", location.String(),
		"content_format", cfg.ContentFormat)
	return r, nil
}
