package render

import "strings"

// htmlEscaper replaces the five HTML-sensitive characters. The ampersand is
// listed first; strings.Replacer works in a single pass, so entities it
// introduces are never escaped again.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML makes s safe for HTML text and quoted attribute contexts.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
