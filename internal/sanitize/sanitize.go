// Package sanitize scrubs annotation text before it enters the pipeline.
// Memory and prompt contexts end up inside consolidated workflow documents,
// so anything marked private or secret-shaped must be removed at ingest.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// privateBlockRegex matches <private>...</private> blocks.
	privateBlockRegex = regexp.MustCompile(`(?s)<private>.*?</private>`)

	// secretAssignRegex matches key=value assignments whose key looks like a
	// credential (token, key, secret, password).
	secretAssignRegex = regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret|password)\s*[=:]\s*\S+`)
)

// Text removes private blocks and redacts credential-shaped assignments,
// then trims surrounding whitespace.
func Text(text string) string {
	text = privateBlockRegex.ReplaceAllString(text, "")
	text = secretAssignRegex.ReplaceAllString(text, "$1=[redacted]")
	return strings.TrimSpace(text)
}

// IsEntirelyPrivate reports whether nothing of the text survives outside
// private blocks.
func IsEntirelyPrivate(text string) bool {
	stripped := privateBlockRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(stripped) == ""
}
