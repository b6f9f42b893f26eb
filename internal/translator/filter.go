package translator

import (
	"strings"
	"unicode"
)

// FilterText keeps alphabetic runes (the Unicode Alphabetic property, so
// combining vowel signs survive), numbers, whitespace and '.' and drops every
// other rune. Kept runes stay in order.
func FilterText(text string) string {
	return strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return -1
	}, text)
}

func keepRune(r rune) bool {
	return r == '.' || isAlphabetic(r) || unicode.IsNumber(r) || unicode.IsSpace(r)
}

func isAlphabetic(r rune) bool {
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_Alphabetic)
}

// Tokenize filters text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(FilterText(text))
}
