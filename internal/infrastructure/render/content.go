package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	ContentFormatPlain    = "plain"
	ContentFormatMarkdown = "markdown"
)

// ContentFormatter turns raw message content into an HTML fragment.
type ContentFormatter interface {
	Format(content string) (string, error)
}

// NewContentFormatter returns the formatter for a configured content format.
func NewContentFormatter(format string) (ContentFormatter, error) {
	switch format {
	case ContentFormatPlain, "":
		return plainContent{}, nil
	case ContentFormatMarkdown:
		return newMarkdownContent(), nil
	default:
		return nil, fmt.Errorf("unknown content format %q", format)
	}
}

type plainContent struct{}

func (plainContent) Format(content string) (string, error) {
	return EscapeHTML(content), nil
}

// markdownContent renders Discord-style markdown. Raw HTML in the source is
// dropped by goldmark and the output is sanitized again by bluemonday.
type markdownContent struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkdownContent() *markdownContent {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &markdownContent{
		md:     md,
		policy: policy,
	}
}

func (m *markdownContent) Format(content string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return m.policy.Sanitize(buf.String()), nil
}
