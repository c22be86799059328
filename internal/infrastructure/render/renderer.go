// Package render turns stored transcripts into self-contained HTML pages.
//
// Rendering is deterministic for a given transcript, template, locale,
// timezone and clock. Every value that originates from the bot is escaped
// before it is placed into the page, and template placeholders are replaced
// by a single literal pass, so text inside a transcript can never act as a
// placeholder or as markup.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
)

// DefaultAvatarFallbackURL seeds generated avatars for authors without one.
const DefaultAvatarFallbackURL = "https://api.dicebear.com/7.x/avataaars/svg"

// Options configures a Renderer.
type Options struct {
	Template          *Template
	Locale            string
	Location          *time.Location
	ContentFormat     string
	AvatarFallbackURL string
	// Now supplies the instant used for {{CURRENT_YEAR}}.
	Now func() time.Time
}

type Renderer struct {
	template       *Template
	locale         localeProfile
	location       *time.Location
	content        ContentFormatter
	avatarFallback string
	now            func() time.Time
}

func NewRenderer(opts Options) (*Renderer, error) {
	content, err := NewContentFormatter(opts.ContentFormat)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		template:       opts.Template,
		locale:         matchLocale(opts.Locale),
		location:       opts.Location,
		content:        content,
		avatarFallback: opts.AvatarFallbackURL,
		now:            opts.Now,
	}
	if r.template == nil {
		r.template = DefaultTemplate()
	}
	if r.location == nil {
		r.location = time.UTC
	}
	if r.avatarFallback == "" {
		r.avatarFallback = DefaultAvatarFallbackURL
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Render produces the HTML page for t. Malformed stored data, such as an
// unparseable timestamp, is reported as an error rather than rendered.
func (r *Renderer) Render(t *transcript.Transcript) (string, error) {
	ticket := t.Ticket()

	createdAt, err := r.formatTimestamp(ticket.CreatedAt())
	if err != nil {
		return "", fmt.Errorf("ticket created_at: %w", err)
	}
	closedAt, err := r.formatTimestamp(ticket.ClosedAt())
	if err != nil {
		return "", fmt.Errorf("ticket closed_at: %w", err)
	}

	messagesHTML, err := r.renderMessages(t.Messages())
	if err != nil {
		return "", err
	}

	displayID := cases.Upper(language.Und).String(transcript.DisplayPrefix(t.ID()))

	replacer := strings.NewReplacer(
		PlaceholderTicketID, EscapeHTML(displayID),
		PlaceholderTranscriptID, EscapeHTML(t.ID()),
		PlaceholderTopic, EscapeHTML(ticket.Topic()),
		PlaceholderChannelID, EscapeHTML(ticket.ChannelID()),
		PlaceholderCreatorName, EscapeHTML(ticket.CreatorName()),
		PlaceholderCreatorID, EscapeHTML(ticket.CreatorID()),
		PlaceholderClosedByName, EscapeHTML(ticket.ClosedByName()),
		PlaceholderCreatedAt, EscapeHTML(createdAt),
		PlaceholderClosedAt, EscapeHTML(closedAt),
		PlaceholderMessageCount, strconv.Itoa(t.MessageCount()),
		PlaceholderMessagesHTML, messagesHTML,
		PlaceholderCurrentYear, strconv.Itoa(r.now().In(r.location).Year()),
	)

	return replacer.Replace(r.template.Source()), nil
}

func (r *Renderer) formatTimestamp(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	ts, err := transcript.ParseTimestamp(value)
	if err != nil {
		return "", err
	}
	return r.locale.formatTime(ts, r.location), nil
}

func (r *Renderer) renderMessages(messages []*transcript.Message) (string, error) {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		if err := r.renderMessage(&b, m); err != nil {
			return "", fmt.Errorf("message %d: %w", i, err)
		}
	}
	return b.String(), nil
}

// messageVariant is the visual treatment selected by the author's role.
type messageVariant struct {
	ringClass   string
	badgeClass  string
	badgeIcon   string
	bubbleClass string
}

var (
	adminVariant = messageVariant{
		ringClass:   "ring-[var(--accent)]/50",
		badgeClass:  "bg-[var(--accent)]/20 border border-[var(--accent)]/30 text-[var(--accent)] text-[10px] font-semibold px-2 py-0.5 rounded-full flex items-center gap-1",
		badgeIcon:   `<i data-lucide="shield-check" class="h-3 w-3"></i> `,
		bubbleClass: "text-white/90 bg-[var(--accent)]/10 border border-[var(--accent)]/20",
	}
	userVariant = messageVariant{
		ringClass:   "ring-white/10",
		badgeClass:  "bg-white/10 border border-white/5 text-white/80 text-[10px] px-2 py-0.5 rounded-full",
		bubbleClass: "text-white/80 bg-white/5 border border-white/5",
	}
)

func (r *Renderer) renderMessage(b *strings.Builder, m *transcript.Message) error {
	timestamp, err := r.formatTimestamp(m.Timestamp())
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	content, err := r.content.Format(m.Content())
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}

	variant, label := userVariant, r.locale.userLabel
	if m.IsAdmin() {
		variant, label = adminVariant, r.locale.adminLabel
	}

	fmt.Fprintf(b, `      <div class="message-group flex gap-4">
        <div class="shrink-0">
          <img src="%s" alt="Avatar" class="h-10 w-10 sm:h-12 sm:w-12 rounded-full bg-black/40 ring-1 %s" />
        </div>
        <div class="flex-grow min-w-0">
          <div class="flex items-baseline gap-2 mb-1">
            <span class="font-bold text-white text-sm sm:text-base">%s</span>
            <span class="%s">%s%s</span>
            <span class="text-xs text-white/40 ml-2">%s</span>
          </div>
          <div class="message-bubble text-sm sm:text-base %s rounded-2xl rounded-tl-none p-4 inline-block max-w-3xl whitespace-pre-wrap">%s</div>
        </div>
      </div>`,
		EscapeHTML(m.AvatarURL(r.avatarFallback)),
		variant.ringClass,
		EscapeHTML(m.AuthorName()),
		variant.badgeClass,
		variant.badgeIcon,
		EscapeHTML(label),
		EscapeHTML(timestamp),
		variant.bubbleClass,
		content,
	)
	return nil
}
