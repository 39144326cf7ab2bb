// Package textmatch builds case-insensitive patterns from literal scenario
// strings. Every pattern it returns is valid both as a Go regexp and as a
// JavaScript RegExp once playwright-go lifts the (?i) prefix into flags.
package textmatch

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Escape quotes every regex metacharacter in literal.
func Escape(literal string) string {
	return regexp.QuoteMeta(literal)
}

// Exact matches text equal to literal, ignoring case and surrounding
// whitespace.
func Exact(literal string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*` + Escape(literal) + `\s*$`)
}

// Word matches literal anywhere in the text as long as it is not glued to
// neighbouring word characters. Boundaries are only asserted on edges of
// literal that are themselves word characters, so "Design (v2)" still
// matches at the end of a label.
func Word(literal string) *regexp.Regexp {
	pattern := Escape(literal)
	if first, _ := utf8.DecodeRuneInString(literal); isWordRune(first) {
		pattern = `\b` + pattern
	}
	if last, _ := utf8.DecodeLastRuneInString(literal); isWordRune(last) {
		pattern += `\b`
	}
	return regexp.MustCompile(`(?i)` + pattern)
}

// Contains matches literal anywhere in the text.
func Contains(literal string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + Escape(literal))
}

// \b in both RE2 and JavaScript is ASCII only.
func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
