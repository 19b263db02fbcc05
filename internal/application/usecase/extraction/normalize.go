// Package extraction recovers invoice line items and customer data from flattened invoice text.
package extraction

import (
	"regexp"
	"strings"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	repeatedNewline = regexp.MustCompile(`\n{2,}`)
)

// Normalize strips carriage returns, collapses runs of spaces and tabs to one space,
// collapses runs of newlines to one newline and trims the result.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r", "")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = repeatedNewline.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
