package application

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxExcerptLength = 200

var excerptPolicy = bluemonday.StrictPolicy()

// extractExcerpt returns the leading plain text of rendered HTML, cut at a
// word boundary once it exceeds maxExcerptLength runes.
func extractExcerpt(renderedHTML []byte) string {
	plain := html.UnescapeString(excerptPolicy.Sanitize(string(renderedHTML)))
	excerpt := strings.Join(strings.Fields(plain), " ")

	runes := []rune(excerpt)
	if len(runes) <= maxExcerptLength {
		return excerpt
	}

	excerpt = string(runes[:maxExcerptLength])
	if lastSpace := strings.LastIndexAny(excerpt, " \t"); lastSpace > 0 {
		excerpt = excerpt[:lastSpace]
	}
	return excerpt + "..."
}
