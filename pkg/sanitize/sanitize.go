// Package sanitize escapes user-supplied text before it is placed into
// rendered markup. Every card field (author, title, content) must pass
// through Escape on its way to the wall surface.
package sanitize

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape maps & < > " ' to their HTML entity forms. Single pass, so
// already-escaped text is escaped again rather than left alone.
func Escape(text string) string {
	return htmlEscaper.Replace(text)
}
