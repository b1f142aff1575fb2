package matcher

import (
	"strings"

	"github.com/dtnitsch/qgc-crawler/models"
)

// maxExactHits bounds the occurrences reported per scope.
const maxExactHits = 50

// Exact finds the folded name as a substring of the folded scope.
type Exact struct{}

func (Exact) Kind() models.Strategy { return models.StrategyExact }

func (Exact) Find(in Input) []models.MatchCandidate {
	name := in.Target.NormalizedName
	if name == "" {
		return nil
	}
	text := in.Corpus.Folded.Value[in.Scope.FStart:in.Scope.FEnd]

	var out []models.MatchCandidate
	for from := 0; len(out) < maxExactHits; {
		i := strings.Index(text[from:], name)
		if i < 0 {
			break
		}
		at := in.Scope.FStart + from + i
		c := in.Corpus.candidate(models.StrategyExact, in.Target.Name, 100, at, at+len(name))
		c.Detail = "Exata"
		out = append(out, c)
		from += i + len(name)
	}
	return out
}
