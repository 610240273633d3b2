// Package markdown derives text statistics from document content.
package markdown

import "strings"

// ExcerptLength is the number of runes kept as a document preview.
const ExcerptLength = 200

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountChars counts unicode code points, not bytes, so CJK text is counted
// per character.
func CountChars(text string) int {
	return len([]rune(text))
}

// Excerpt returns the first ExcerptLength runes of text. Empty content
// yields an empty excerpt.
func Excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= ExcerptLength {
		return text
	}
	return string(runes[:ExcerptLength])
}
