package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorie/ticketarchive/internal/shared/config"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

func TestLoadTemplate(t *testing.T) {
	log := logger.NewNopLogger()
	dir := t.TempDir()

	t.Run("empty path uses embedded template", func(t *testing.T) {
		tmpl, err := LoadTemplate("", log)
		require.NoError(t, err)
		assert.Equal(t, DefaultTemplate().Name(), tmpl.Name())
	})

	t.Run("missing file falls back to embedded template", func(t *testing.T) {
		tmpl, err := LoadTemplate(filepath.Join(dir, "absent.html"), log)
		require.NoError(t, err)
		assert.Equal(t, DefaultTemplate().Source(), tmpl.Source())
	})

	t.Run("custom file is loaded", func(t *testing.T) {
		path := filepath.Join(dir, "custom.html")
		require.NoError(t, os.WriteFile(path, []byte("<h1>{{TOPIC}}</h1>{{MESSAGES_HTML}}"), 0o644))

		tmpl, err := LoadTemplate(path, log)
		require.NoError(t, err)
		assert.Equal(t, path, tmpl.Name())
		assert.Contains(t, tmpl.MissingPlaceholders(), PlaceholderCurrentYear)
		assert.NotContains(t, tmpl.MissingPlaceholders(), PlaceholderTopic)
	})

	t.Run("file without messages placeholder is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "broken.html")
		require.NoError(t, os.WriteFile(path, []byte("<h1>{{TOPIC}}</h1>"), 0o644))

		_, err := LoadTemplate(path, log)
		assert.Error(t, err)
	})
}

func TestNewFromConfig(t *testing.T) {
	log := logger.NewNopLogger()

	r, err := NewFromConfig(config.RenderConfig{
		Locale:        "en-US",
		Timezone:      "UTC",
		ContentFormat: ContentFormatPlain,
	}, fixedClock, log)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, r.location)
	assert.Equal(t, DefaultAvatarFallbackURL, r.avatarFallback)

	_, err = NewFromConfig(config.RenderConfig{Timezone: "Mars/Olympus_Mons"}, nil, log)
	assert.Error(t, err)

	_, err = NewFromConfig(config.RenderConfig{ContentFormat: "bbcode"}, nil, log)
	assert.Error(t, err)
}
