// Package query normalizes raw search input into a matchable form.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the minimum number of runes a normalized query needs before
// the record store is consulted.
const MinLength = 2

// Query is a normalized search string.
type Query struct {
	text string
}

// Normalize trims, lower-cases and collapses whitespace runs. Input without a
// single letter or digit normalizes to the empty query.
func Normalize(raw string) Query {
	text := NormalizeField(raw)
	if !strings.ContainsFunc(text, IsWordRune) {
		text = ""
	}
	return Query{text: text}
}

// NormalizeField folds a stored field value the same way queries are folded.
func NormalizeField(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// IsWordRune reports whether r can be part of a word.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Text returns the normalized query text.
func (q Query) Text() string { return q.text }

// Len returns the length in runes.
func (q Query) Len() int { return utf8.RuneCountInString(q.text) }

// Searchable reports whether the query meets the minimum length floor.
func (q Query) Searchable() bool { return q.Len() >= MinLength }

// Excerpt returns at most n runes of the normalized text.
func (q Query) Excerpt(n int) string {
	if n <= 0 {
		return ""
	}
	if q.Len() <= n {
		return q.text
	}
	runes := []rune(q.text)
	return string(runes[:n])
}
