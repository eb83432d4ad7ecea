// Package htmltext extracts plain text from strings carrying inline HTML
// markup, such as chapter titles and heading labels.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip returns the concatenated text content of s with all tags removed.
// Text is re-escaped on the way out, so a bare "&" comes back as "&amp;"
// and callers can apply uniform character-reference decoding.
func Strip(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	tz := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			// Re-escape so downstream entity handling sees the original
			// character references rather than tokenizer-decoded runes.
			b.WriteString(html.EscapeString(string(tz.Text())))
		}
	}
}
