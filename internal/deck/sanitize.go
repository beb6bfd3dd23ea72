package deck

import (
	"regexp"
	"strings"
)

var (
	// leadingFence matches an opening code fence with an optional language tag
	leadingFence = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*\r?\n?")
	// trailingFence matches a closing code fence at the end of the text
	trailingFence = regexp.MustCompile("\r?\n?```$")
)

// Sanitize strips the markdown code fence a model may wrap around its JSON.
// One leading fence (```json, ``` etc.) and one trailing fence are removed;
// interior content is left alone. Repeated until stable, so
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	return stripFences(raw)
}

// stripFences trims whitespace and removes the outer fence pair until nothing changes
func stripFences(text string) string {
	for {
		next := strings.TrimSpace(text)
		next = leadingFence.ReplaceAllString(next, "")
		next = trailingFence.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == text {
			return next
		}
		text = next
	}
}
