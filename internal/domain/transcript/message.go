package transcript

import (
	"fmt"
	"net/url"
	"strings"
)

// MessageParams carries one chat entry as submitted by the bot.
type MessageParams struct {
	AuthorName   string
	AuthorAvatar string
	IsAdmin      bool
	Content      string
	Timestamp    string
}

type Message struct {
	authorName   string
	authorAvatar string
	isAdmin      bool
	content      string
	timestamp    string
}

func NewMessage(p MessageParams) (*Message, error) {
	if p.AuthorName == "" {
		return nil, fmt.Errorf("author_name is required")
	}

	return &Message{
		authorName:   p.AuthorName,
		authorAvatar: p.AuthorAvatar,
		isAdmin:      p.IsAdmin,
		content:      p.Content,
		timestamp:    p.Timestamp,
	}, nil
}

func (m *Message) AuthorName() string {
	return m.authorName
}

func (m *Message) AuthorAvatar() string {
	return m.authorAvatar
}

func (m *Message) IsAdmin() bool {
	return m.isAdmin
}

func (m *Message) Content() string {
	return m.content
}

func (m *Message) Timestamp() string {
	return m.timestamp
}

func (m *Message) Params() MessageParams {
	return MessageParams{
		AuthorName:   m.authorName,
		AuthorAvatar: m.authorAvatar,
		IsAdmin:      m.isAdmin,
		Content:      m.content,
		Timestamp:    m.timestamp,
	}
}

// AvatarURL returns the submitted avatar when it is an absolute http(s) URL
// and the deterministic fallback for the author's name otherwise.
func (m *Message) AvatarURL(fallbackBase string) string {
	if isWebURL(m.authorAvatar) {
		return m.authorAvatar
	}
	return FallbackAvatarURL(fallbackBase, m.authorName)
}

// FallbackAvatarURL derives an avatar URL seeded by the author's name, so the
// same name always yields the same avatar.
func FallbackAvatarURL(base, authorName string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "seed=" + encodeURIComponent(authorName)
}

func isWebURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// encodeURIComponent escapes like the browser function of the same name:
// spaces become %20 and the marks -_.!~*'() stay literal.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	return strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	).Replace(escaped)
}
