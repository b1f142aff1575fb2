// Package normalize folds text for comparison: lower case, diacritics removed,
// whitespace runs collapsed. Text keeps a byte map back to the source so match
// offsets found in folded text can be reported against the original.
package normalize

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name folds a short string such as a client name.
func Name(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Text is a folded string with a map from every folded byte to the source rune
// that produced it.
type Text struct {
	Value     string
	starts    []int
	ends      []int
	sourceLen int
}

// Map folds src and records the byte mapping. Leading and trailing whitespace
// is dropped.
func Map(src string) *Text {
	var sb strings.Builder
	sb.Grow(len(src))
	starts := make([]int, 0, len(src))
	ends := make([]int, 0, len(src))

	emit := func(r rune, from, to int) {
		n := sb.Len()
		sb.WriteRune(r)
		for i := n; i < sb.Len(); i++ {
			starts = append(starts, from)
			ends = append(ends, to)
		}
	}

	pendingSpace := -1
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		next := i + size

		if unicode.IsSpace(r) {
			if pendingSpace < 0 {
				pendingSpace = i
			}
			i = next
			continue
		}
		if pendingSpace >= 0 {
			if sb.Len() > 0 {
				emit(' ', pendingSpace, i)
			}
			pendingSpace = -1
		}

		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			emit(r, i, next)
			i = next
			continue
		}

		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			emit(unicode.ToLower(d), i, next)
		}
		i = next
	}

	return &Text{
		Value:     sb.String(),
		starts:    starts,
		ends:      ends,
		sourceLen: len(src),
	}
}

// Len returns the folded length in bytes.
func (t *Text) Len() int {
	return len(t.Value)
}

// Source maps the folded range [start, end) to the source range it came from.
func (t *Text) Source(start, end int) (int, int) {
	if len(t.starts) == 0 {
		return 0, 0
	}
	start = clamp(start, 0, len(t.starts)-1)
	if end <= start {
		return t.starts[start], t.starts[start]
	}
	end = clamp(end, 1, len(t.ends))
	return t.starts[start], t.ends[end-1]
}

// Offset returns the first folded byte whose source position is at or after
// srcOffset. It is used to translate section bounds into folded text.
func (t *Text) Offset(srcOffset int) int {
	if srcOffset >= t.sourceLen {
		return len(t.starts)
	}
	return sort.SearchInts(t.starts, srcOffset)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Token is a word of folded text: a maximal run of letters and digits.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits folded text into words with their byte offsets.
func Tokenize(s string) []Token {
	var tokens []Token
	start := -1
	for i, r := range s {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case word && start < 0:
			start = i
		case !word && start >= 0:
			tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: s[start:], Start: start, End: len(s)})
	}
	return tokens
}

// Words returns the token texts of s after folding it.
func Words(s string) []string {
	tokens := Tokenize(Name(s))
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	return words
}
