package llm

import (
	"regexp"
	"strings"
)

var (
	reFenceJSON  = regexp.MustCompile("```json\\s*")
	reFenceBare  = regexp.MustCompile("```\\s*")
	reBeforeOpen = regexp.MustCompile(`^[^\[]*`)
	reAfterClose = regexp.MustCompile(`[^\]]*$`)
	reArrayShape = regexp.MustCompile(`\[\s*\{[\s\S]*\}\s*\]`)
)

// SanitizeResponse strips formatting noise from a raw model response and
// isolates the JSON-array-of-objects substring. Returns "" when no array shape
// is present; callers treat that as zero records, not an error.
func SanitizeResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	// markdown code fences, language-tagged and bare
	cleaned = reFenceJSON.ReplaceAllString(cleaned, "")
	cleaned = reFenceBare.ReplaceAllString(cleaned, "")

	// anything before the first [ or after the last ]
	cleaned = reBeforeOpen.ReplaceAllString(cleaned, "")
	cleaned = reAfterClose.ReplaceAllString(cleaned, "")

	return reArrayShape.FindString(cleaned)
}
