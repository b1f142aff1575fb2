// Package contextual extracts monetary amounts and CPF/CNPJ identifiers from
// text windows around a match.
package contextual

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dtnitsch/qgc-crawler/models"
)

// Radius is the number of runes taken on each side of a match.
const Radius = 200

var (
	moneyPattern      = regexp.MustCompile(`R\$\s*\d[\d.,]*\d|R\$\s*\d|\b\d{1,3}(?:\.\d{3})+,\d{2}\b|\b\d+,\d{2}\b`)
	identifierPattern = regexp.MustCompile(`\b(?:\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}|\d{3}\.?\d{3}\.?\d{3}-?\d{2})\b`)
)

// Token is a raw pattern match in a text.
type Token struct {
	Raw   string
	Start int
	End   int
}

// Identifier is a CPF or CNPJ token with its digits.
type Identifier struct {
	Token
	Digits string
	Type   models.IdentifierType
	Valid  bool
}

// Malformed reports identifiers made of one repeated digit, which pass mod-11
// trivially and are never real.
func (id Identifier) Malformed() bool {
	return strings.Count(id.Digits, id.Digits[:1]) == len(id.Digits)
}

// FindMoney returns the monetary tokens of text in order.
func FindMoney(text string) []Token {
	return tokens(moneyPattern, text)
}

// FindIdentifiers returns CPF/CNPJ tokens that do not overlap a monetary token.
func FindIdentifiers(text string) []Identifier {
	money := FindMoney(text)
	var ids []Identifier
	for _, tok := range tokens(identifierPattern, text) {
		if overlapsAny(tok, money) {
			continue
		}
		digits := onlyDigits(tok.Raw)
		id := Identifier{Token: tok, Digits: digits}
		switch len(digits) {
		case 14:
			id.Type = models.IdentifierCNPJ
			id.Valid = validCNPJ(digits)
		case 11:
			id.Type = models.IdentifierCPF
			id.Valid = validCPF(digits)
		default:
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// HasData reports whether text holds any monetary or identifier token.
func HasData(text string) bool {
	return moneyPattern.MatchString(text) || len(FindIdentifiers(text)) > 0
}

// CountTokens returns document-wide monetary and identifier counts.
func CountTokens(text string) (values, identifiers int) {
	return len(FindMoney(text)), len(FindIdentifiers(text))
}

// Extract returns every datum of a window, ordered by offset. base is the
// document offset of the window's first byte.
func Extract(window string, base int) []models.ExtractedDatum {
	var data []models.ExtractedDatum

	for _, tok := range FindMoney(window) {
		amount, err := ParseAmount(tok.Raw)
		if err != nil {
			continue
		}
		data = append(data, models.ExtractedDatum{
			Kind:            models.DatumMonetary,
			RawText:         tok.Raw,
			Value:           amount.StringFixed(2),
			Amount:          amount,
			OffsetInContext: tok.Start,
			DocumentOffset:  base + tok.Start,
		})
	}

	for _, id := range FindIdentifiers(window) {
		data = append(data, models.ExtractedDatum{
			Kind:            models.DatumIdentifier,
			RawText:         id.Raw,
			Value:           id.Digits,
			IdentifierType:  id.Type,
			LowConfidence:   !id.Valid || id.Malformed(),
			OffsetInContext: id.Start,
			DocumentOffset:  base + id.Start,
		})
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].OffsetInContext < data[j].OffsetInContext
	})
	return data
}

// ParseAmount converts a Brazilian or international amount to a decimal. The
// decimal separator is the last '.' or ',' followed by one or two digits.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", raw)
	}

	sep := strings.LastIndexAny(s, ".,")
	decimalSep := byte(0)
	if sep >= 0 {
		tail := len(s) - sep - 1
		if tail >= 1 && tail <= 2 {
			decimalSep = s[sep]
		}
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			sb.WriteByte(c)
		case decimalSep != 0 && i == sep:
			sb.WriteByte('.')
		}
	}

	d, err := decimal.NewFromString(sb.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

// Window returns about Radius runes on each side of [start, end) in text and
// the byte offset where the window begins. Edges that fall inside a word are
// moved to whitespace so an amount or identifier is never cut in half: out
// to the end of the word when it is at most edgeSlack bytes away, otherwise
// in to the previous break. A run with no whitespace keeps the rune cut.
func Window(text string, start, end int) (string, int) {
	from := start
	for n := 0; n < Radius && from > 0; n++ {
		from--
		for from > 0 && !runeStart(text[from]) {
			from--
		}
	}
	to := end
	for n := 0; n < Radius && to < len(text); n++ {
		to++
		for to < len(text) && !runeStart(text[to]) {
			to++
		}
	}
	from = alignStart(text, from, start)
	to = alignEnd(text, to, end)
	return text[from:to], from
}

// edgeSlack bounds how far a window edge may grow to finish a word.
const edgeSlack = 32

func alignStart(text string, from, limit int) int {
	if from == 0 || isSpace(text[from-1]) {
		return from
	}
	for i := from - 1; i >= 0 && from-i <= edgeSlack; i-- {
		if isSpace(text[i]) {
			return i + 1
		}
		if i == 0 {
			return 0
		}
	}
	for i := from; i < limit; i++ {
		if isSpace(text[i]) {
			return i + 1
		}
	}
	return from
}

func alignEnd(text string, to, limit int) int {
	if to == len(text) || isSpace(text[to]) {
		return to
	}
	for i := to; i < len(text) && i-to <= edgeSlack; i++ {
		if isSpace(text[i]) {
			return i
		}
		if i == len(text)-1 {
			return len(text)
		}
	}
	for i := to - 1; i >= limit; i-- {
		if isSpace(text[i]) {
			return i
		}
	}
	return to
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func runeStart(b byte) bool {
	return b&0xC0 != 0x80
}

func tokens(re *regexp.Regexp, text string) []Token {
	locs := re.FindAllStringIndex(text, -1)
	out := make([]Token, 0, len(locs))
	for _, loc := range locs {
		out = append(out, Token{Raw: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	return out
}

func overlapsAny(tok Token, others []Token) bool {
	for _, o := range others {
		if tok.Start < o.End && o.Start < tok.End {
			return true
		}
	}
	return false
}

func onlyDigits(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
