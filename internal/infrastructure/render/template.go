package render

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/velorie/ticketarchive/internal/shared/logger"
)

// Placeholders recognised in page templates.
const (
	PlaceholderTicketID     = "{{TICKET_ID}}"
	PlaceholderTranscriptID = "{{TRANSCRIPT_ID}}"
	PlaceholderTopic        = "{{TOPIC}}"
	PlaceholderChannelID    = "{{CHANNEL_ID}}"
	PlaceholderCreatorName  = "{{CREATOR_NAME}}"
	PlaceholderCreatorID    = "{{CREATOR_ID}}"
	PlaceholderClosedByName = "{{CLOSED_BY_NAME}}"
	PlaceholderCreatedAt    = "{{CREATED_AT}}"
	PlaceholderClosedAt     = "{{CLOSED_AT}}"
	PlaceholderMessageCount = "{{MESSAGE_COUNT}}"
	PlaceholderMessagesHTML = "{{MESSAGES_HTML}}"
	PlaceholderCurrentYear  = "{{CURRENT_YEAR}}"
)

// Placeholders lists every placeholder the renderer substitutes.
var Placeholders = []string{
	PlaceholderTicketID,
	PlaceholderTranscriptID,
	PlaceholderTopic,
	PlaceholderChannelID,
	PlaceholderCreatorName,
	PlaceholderCreatorID,
	PlaceholderClosedByName,
	PlaceholderCreatedAt,
	PlaceholderClosedAt,
	PlaceholderMessageCount,
	PlaceholderMessagesHTML,
	PlaceholderCurrentYear,
}

//go:embed templates/transcript.html
var defaultTemplate string

// Template is a page skeleton with named placeholders. It is plain text:
// nothing in it is evaluated.
type Template struct {
	name   string
	source string
}

func NewTemplate(name, source string) *Template {
	return &Template{name: name, source: source}
}

// DefaultTemplate returns the page bundled with the binary.
func DefaultTemplate() *Template {
	return NewTemplate("embedded:transcript.html", defaultTemplate)
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) Source() string {
	return t.source
}

// MissingPlaceholders lists recognised placeholders the template never uses.
func (t *Template) MissingPlaceholders() []string {
	var missing []string
	for _, p := range Placeholders {
		if !strings.Contains(t.source, p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// LoadTemplate reads the page template from path. An empty path or a missing
// file falls back to the embedded default; any other read error is returned.
func LoadTemplate(path string, log logger.Interface) (*Template, error) {
	if path == "" {
		log.Infow("no template path configured, using embedded transcript template")
		return DefaultTemplate(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnw("template file not found, using embedded transcript template", "path", path)
			return DefaultTemplate(), nil
		}
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	tmpl := NewTemplate(path, string(content))
	if !strings.Contains(tmpl.source, PlaceholderMessagesHTML) {
		return nil, fmt.Errorf("template %s has no %s placeholder", path, PlaceholderMessagesHTML)
	}
	if missing := tmpl.MissingPlaceholders(); len(missing) > 0 {
		log.Warnw("template does not use every placeholder", "path", path, "missing", missing)
	}

	log.Infow("loaded transcript template", "path", path, "size", len(content))
	return tmpl, nil
}
