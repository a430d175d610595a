package service

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultExcerptLength 是摘要的默认截断长度。
const DefaultExcerptLength = 150

var stripPolicy = bluemonday.StrictPolicy()

// Excerpt strips markup from content and truncates it to length characters,
// backtracking to the last word boundary before appending an ellipsis.
// Content at or under the limit is returned unchanged.
func Excerpt(content string, length int) string {
	if length <= 0 {
		length = DefaultExcerptLength
	}

	text := html.UnescapeString(stripPolicy.Sanitize(content))
	if utf8.RuneCountInString(text) <= length {
		return text
	}

	truncated := string([]rune(text)[:length])
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + "..."
}

// ReadingTime estimates reading minutes at roughly 200 words per minute,
// never reporting less than one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := words / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
