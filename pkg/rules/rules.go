// Package rules holds the keyword tables used to classify and segment
// documents, and the scanner that applies them to folded text.
package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule maps a folded phrase to a tag with a weight.
type Rule struct {
	Phrase string
	Tag    string
	Weight float64
}

// Table is an ordered rule set. Order breaks ties between tags.
type Table []Rule

// Hit is one occurrence of a rule's phrase.
type Hit struct {
	Rule   Rule
	Offset int
}

// Scan returns every word-bounded occurrence of every phrase in folded text,
// at most maxPerRule per rule (0 means unlimited). Hits are grouped by rule in
// table order, offsets ascending within a rule.
func (t Table) Scan(folded string, maxPerRule int) []Hit {
	var hits []Hit
	for _, r := range t {
		n := 0
		for from := 0; from < len(folded); {
			i := strings.Index(folded[from:], r.Phrase)
			if i < 0 {
				break
			}
			at := from + i
			if bounded(folded, at, at+len(r.Phrase)) {
				hits = append(hits, Hit{Rule: r, Offset: at})
				n++
				if maxPerRule > 0 && n >= maxPerRule {
					break
				}
			}
			from = at + len(r.Phrase)
		}
	}
	return hits
}

// Tags returns the distinct tags of the table in first-seen order.
func (t Table) Tags() []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, r := range t {
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		seen[r.Tag] = struct{}{}
		tags = append(tags, r.Tag)
	}
	return tags
}

// bounded reports whether s[start:end] is not glued to a word on either side.
func bounded(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWord(r) && isWordStart(s[start:]) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		last, _ := utf8.DecodeLastRuneInString(s[:end])
		if isWord(r) && isWord(last) {
			return false
		}
	}
	return true
}

func isWordStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isWord(r)
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
