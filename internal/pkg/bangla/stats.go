package bangla

import (
	"strings"
)

// TextStats simple manuscript statistics shown in the editor toolbar
type TextStats struct {
	Chars int `json:"chars"` // runes, including punctuation
	Words int `json:"words"` // whitespace-separated tokens
	Lines int `json:"lines"` // newline-delimited lines
}

// Stats counts characters, words, and lines of a manuscript body
func Stats(text string) TextStats {
	if text == "" {
		return TextStats{}
	}
	return TextStats{
		Chars: len([]rune(text)),
		Words: len(strings.Fields(text)),
		Lines: len(strings.Split(text, "\n")),
	}
}
