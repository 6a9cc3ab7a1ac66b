package blog

import (
	"strings"
	"unicode/utf8"
)

const (
	wordsPerMinute   = 200
	maxExcerptLength = 150
)

// ReadingTime estimates minutes to read content at 200 words per minute,
// rounding up. It is never below one.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// DeriveExcerpt builds a teaser from the title for posts saved without one.
func DeriveExcerpt(title string) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > maxExcerptLength {
		title = string([]rune(title)[:maxExcerptLength])
	}
	return title + "..."
}
