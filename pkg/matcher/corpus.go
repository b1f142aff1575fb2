package matcher

import (
	"sort"
	"strings"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/contextual"
	"github.com/dtnitsch/qgc-crawler/pkg/normalize"
)

// Corpus is a document prepared for matching. It is built once per document
// and shared read-only by every client.
type Corpus struct {
	Doc    *models.Document
	Folded *normalize.Text
	Tokens []normalize.Token

	identifiers []identifierLine
	malformed   int
}

// identifierLine is a CPF/CNPJ token with the folded words of the text around it.
type identifierLine struct {
	contextual.Identifier
	words []string
}

// NewCorpus folds the document text and indexes its identifiers.
func NewCorpus(doc *models.Document) *Corpus {
	folded := normalize.Map(doc.FullText)
	c := &Corpus{
		Doc:    doc,
		Folded: folded,
		Tokens: normalize.Tokenize(folded.Value),
	}

	for _, id := range contextual.FindIdentifiers(doc.FullText) {
		if id.Malformed() {
			c.malformed++
			continue
		}
		c.identifiers = append(c.identifiers, identifierLine{
			Identifier: id,
			words:      lineWords(doc.FullText, id),
		})
	}
	return c
}

// Anomalies is the number of malformed identifiers skipped while indexing.
func (c *Corpus) Anomalies() int {
	return c.malformed
}

// lineWords returns the folded words on the identifier's line, without the
// identifier. A line with fewer than two words borrows the previous line.
func lineWords(text string, id contextual.Identifier) []string {
	lineStart := strings.LastIndexByte(text[:id.Start], '\n') + 1
	lineEnd := strings.IndexByte(text[id.End:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += id.End
	}

	words := foldedWords(text[lineStart:id.Start] + " " + text[id.End:lineEnd])
	if len(words) >= 2 || lineStart == 0 {
		return words
	}

	prevStart := strings.LastIndexByte(text[:lineStart-1], '\n') + 1
	return append(foldedWords(text[prevStart:lineStart-1]), words...)
}

func foldedWords(s string) []string {
	var out []string
	for _, w := range normalize.Words(s) {
		if isDigits(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Scope is a region of the corpus a strategy searches: the whole document or
// one section.
type Scope struct {
	Section *models.Section

	// source byte range
	Start, End int
	// folded byte range
	FStart, FEnd int
	// token index range
	TStart, TEnd int
}

// Whole returns the scope covering the whole document.
func (c *Corpus) Whole() Scope {
	return c.scope(nil, 0, len(c.Doc.FullText))
}

// Scopes returns the whole document, or one scope per section when
// sectionScoping is set.
func (c *Corpus) Scopes(sectionScoping bool) []Scope {
	if !sectionScoping || len(c.Doc.Sections) == 0 {
		return []Scope{c.Whole()}
	}
	scopes := make([]Scope, 0, len(c.Doc.Sections))
	for i := range c.Doc.Sections {
		s := &c.Doc.Sections[i]
		scopes = append(scopes, c.scope(s, s.Start, s.End))
	}
	return scopes
}

func (c *Corpus) scope(section *models.Section, start, end int) Scope {
	fStart, fEnd := c.Folded.Offset(start), c.Folded.Offset(end)
	tStart := sort.Search(len(c.Tokens), func(i int) bool { return c.Tokens[i].Start >= fStart })
	tEnd := sort.Search(len(c.Tokens), func(i int) bool { return c.Tokens[i].End > fEnd })
	if tEnd < tStart {
		tEnd = tStart
	}
	return Scope{
		Section: section,
		Start:   start, End: end,
		FStart: fStart, FEnd: fEnd,
		TStart: tStart, TEnd: tEnd,
	}
}

// candidate builds a MatchCandidate from a folded range, back-mapped to the
// source text.
func (c *Corpus) candidate(kind models.Strategy, client string, score, fStart, fEnd int) models.MatchCandidate {
	start, end := c.Folded.Source(fStart, fEnd)
	return c.sourceCandidate(kind, client, score, start, end)
}

func (c *Corpus) sourceCandidate(kind models.Strategy, client string, score, start, end int) models.MatchCandidate {
	return models.MatchCandidate{
		Client:   client,
		Strategy: kind,
		Score:    score,
		Offset:   start,
		Length:   end - start,
		Section:  c.Doc.SectionAt(start),
		Page:     c.Doc.PageAt(start),
	}
}
