package podcast

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	urlPattern   = regexp.MustCompile(`http\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
	stripPolicy  = bluemonday.StrictPolicy()
)

// CleanText removes HTML markup and collapses whitespace
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(stripPolicy.Sanitize(raw))
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// ForDisplay returns a copy of the episode prepared for listing:
// links are dropped from the description and the release timestamp is cut to its date.
func ForDisplay(ep Episode) Episode {
	ep.Description = strings.TrimSpace(spacePattern.ReplaceAllString(
		urlPattern.ReplaceAllString(CleanText(ep.Description), ""), " "))
	if date, _, found := strings.Cut(ep.Released, "T"); found {
		ep.Released = date
	}
	return ep
}
