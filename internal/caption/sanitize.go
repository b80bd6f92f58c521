// Package caption cleans LLM output for display and encodes it for memegen URLs.
//
// Sanitize and Encode are separate steps: Sanitize produces the text shown to
// users, Encode turns that text into a memegen path segment.
package caption

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Placeholder replaces empty or unusable model output.
	Placeholder = "AI is tired, try again."

	// MaxDisplayLength is the display bound in runes, ellipsis included.
	MaxDisplayLength = 120

	ellipsis = "…"
)

var (
	hashtagPattern = regexp.MustCompile(`#+(\w+)`)
	doubleQuoteRun = regexp.MustCompile(`"{2,}`)
	singleQuoteRun = regexp.MustCompile(`'{2,}`)
)

// isEdgeJunk reports whether r may be stripped from either end of a caption:
// whitespace, straight or curly quotes, backslashes and backticks.
func isEdgeJunk(r rune) bool {
	switch r {
	case '"', '\'', '\\', '`', '“', '”', '‘', '’':
		return true
	}
	return unicode.IsSpace(r)
}

// Sanitize turns raw model output into a display caption of at most
// MaxDisplayLength runes. It never returns an empty string, and applying it
// to its own output is a no-op.
func Sanitize(raw string) string {
	c := strings.TrimFunc(raw, isEdgeJunk)
	c = stripHashtags(c)
	c = collapseSpace(c, " ")
	c = doubleQuoteRun.ReplaceAllString(c, `"`)
	c = singleQuoteRun.ReplaceAllString(c, `'`)
	c = strings.TrimSpace(c)

	if c == "" {
		return Placeholder
	}

	if utf8.RuneCountInString(c) > MaxDisplayLength {
		c = strings.TrimRightFunc(truncateRunes(c, MaxDisplayLength-1), unicode.IsSpace) + ellipsis
	}
	return c
}

// stripHashtags drops the leading '#' run of every hashtag, keeping the word.
func stripHashtags(s string) string {
	return hashtagPattern.ReplaceAllString(s, "$1")
}

// collapseSpace replaces every run of whitespace with sep.
func collapseSpace(s, sep string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(sep)
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
