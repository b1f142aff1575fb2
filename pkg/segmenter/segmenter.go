// Package segmenter splits a document into credit-class sections by
// detecting heading lines.
package segmenter

import (
	"strings"
	"unicode"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/contextual"
	"github.com/dtnitsch/qgc-crawler/pkg/normalize"
	"github.com/dtnitsch/qgc-crawler/pkg/rules"
)

const (
	maxHeadingLength = 120
	minUpperRatio    = 0.6
	// words a heading may carry besides its class phrase, as in
	// "RELAÇÃO DE CREDORES TRABALHISTAS"
	maxExtraWords = 3
	classPrefix   = "classe "
)

// Heading is a detected heading line.
type Heading struct {
	Name   models.SectionName
	Offset int
	Line   string
}

// Segment partitions text into ordered sections covering [0, len(text)).
func Segment(text string) []models.Section {
	current := models.Section{Name: models.SectionOther}
	var sections []models.Section

	for _, h := range Headings(text) {
		if current.Heading != "" && h.Name == current.Name {
			continue
		}
		if h.Offset == current.Start {
			current.Name = h.Name
			current.Heading = h.Line
			continue
		}
		current.End = h.Offset
		sections = append(sections, current)
		current = models.Section{Name: h.Name, Start: h.Offset, Heading: h.Line}
	}

	current.End = len(text)
	sections = append(sections, current)
	for i := range sections {
		sections[i].Rank = i
	}
	return sections
}

// Headings returns every heading line of text in document order.
func Headings(text string) []Heading {
	var out []Heading
	for offset := 0; offset < len(text); {
		end := strings.IndexByte(text[offset:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += offset
		}
		line := strings.TrimSpace(text[offset:end])
		if name, ok := headingName(line); ok {
			out = append(out, Heading{Name: name, Offset: offset, Line: line})
		}
		offset = end + 1
	}
	return out
}

func headingName(line string) (models.SectionName, bool) {
	if line == "" || len(line) > maxHeadingLength {
		return "", false
	}
	folded := normalize.Name(line)
	if upperRatio(line) < minUpperRatio && !strings.HasPrefix(folded, "classe") {
		return "", false
	}
	// creditor rows can be upper case too, but they carry amounts or ids
	if contextual.HasData(line) {
		return "", false
	}
	hits := rules.Headings.Scan(folded, 1)
	if len(hits) == 0 {
		return "", false
	}
	// class numbers come first in the table and settle the name
	first := hits[0].Rule
	if strings.HasPrefix(first.Phrase, classPrefix) {
		return models.SectionName(first.Tag), true
	}
	// a title naming several classes or a sentence mentioning one is not a heading
	for _, h := range hits[1:] {
		if h.Rule.Tag != first.Tag {
			return "", false
		}
	}
	if len(normalize.Words(folded))-len(normalize.Words(first.Phrase)) > maxExtraWords {
		return "", false
	}
	return models.SectionName(first.Tag), true
}

func upperRatio(s string) float64 {
	letters, upper := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}
