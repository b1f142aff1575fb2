package matcher

import (
	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/analytics"
	"github.com/dtnitsch/qgc-crawler/pkg/normalize"
)

// Input is what a strategy needs to search one scope for one client.
type Input struct {
	Corpus *Corpus
	Scope  Scope
	Target models.ClientTarget

	// NameWords are all words of the folded name; Significant excludes
	// connectors and company fillers.
	NameWords   []string
	Significant []string

	// Minimum is the effective acceptance score for this client.
	Minimum int

	// Prior holds accepted candidates of earlier strategies in this scope.
	Prior []models.MatchCandidate
}

// NewInput derives the word lists of target once for all scopes.
func NewInput(c *Corpus, target models.ClientTarget, minimum int) Input {
	return Input{
		Corpus:      c,
		Target:      target,
		NameWords:   normalize.Words(target.NormalizedName),
		Significant: analytics.SignificantWords(target.NormalizedName),
		Minimum:     minimum,
	}
}

// Strategy produces scored candidates for a client over a scope.
type Strategy interface {
	Kind() models.Strategy
	Find(in Input) []models.MatchCandidate
}

// tokenWords returns the texts of tokens [from, to).
func (c *Corpus) tokenWords(from, to int) []string {
	words := make([]string, to-from)
	for i := from; i < to; i++ {
		words[i-from] = c.Tokens[i].Text
	}
	return words
}
