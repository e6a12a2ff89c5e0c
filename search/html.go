package search

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags from text and collapses the remaining
// whitespace to single spaces. Note content arrives from the API as HTML and
// is indexed as plain text.
func StripHTML(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, " ")
	return strings.Join(strings.Fields(text), " ")
}
