// Package matcher locates client names in a document with five independent
// strategies and reports every scored candidate.
package matcher

import (
	"github.com/dtnitsch/qgc-crawler/models"
)

const (
	shortNameWords = 2
	shortNameBoost = 10
	maxMinimum     = 98
)

// EffectiveMinimum raises the operator minimum for names with fewer than two
// significant words when ShortNameBoost is on.
func EffectiveMinimum(cfg models.ToleranceConfig, significantWords int) int {
	minimum := cfg.MinimumScore
	if cfg.ShortNameBoost && significantWords < shortNameWords {
		minimum = max(cfg.MinimumScore, min(minimum+shortNameBoost, maxMinimum))
	}
	return minimum
}

// Run is every candidate found for one client.
type Run struct {
	Target           models.ClientTarget
	Candidates       []models.MatchCandidate
	EffectiveMinimum int
}

// Engine runs the strategies for one client at a time. It holds no per-run
// state and is safe for concurrent use.
type Engine struct {
	name    []Strategy
	context Strategy
	data    Strategy
}

func New() *Engine {
	return &Engine{
		name:    []Strategy{Exact{}, WordBased{}, FuzzyStrict{}},
		context: ContextWindow{},
		data:    DataDriven{},
	}
}

// Match searches every scope for target. Word, fuzzy and context candidates
// below the effective minimum are dropped; exact and identifier candidates
// keep their own floors.
func (e *Engine) Match(c *Corpus, target models.ClientTarget, cfg models.ToleranceConfig) Run {
	in := NewInput(c, target, 0)
	in.Minimum = EffectiveMinimum(cfg, len(in.Significant))

	run := Run{Target: target, EffectiveMinimum: in.Minimum}
	if target.NormalizedName == "" {
		return run
	}

	for _, scope := range c.Scopes(cfg.SectionScoping) {
		in.Scope = scope
		in.Prior = nil

		var prior []models.MatchCandidate
		for _, s := range e.name {
			for _, cand := range s.Find(in) {
				if s.Kind() != models.StrategyExact && cand.Score < in.Minimum {
					continue
				}
				prior = append(prior, cand)
			}
		}

		in.Prior = prior
		windows := e.context.Find(in)
		contextText := make(map[[2]int]string, len(windows))
		for _, w := range windows {
			contextText[[2]int{w.Offset, w.Length}] = w.ContextText
		}
		for i := range prior {
			prior[i].ContextText = contextText[[2]int{prior[i].Offset, prior[i].Length}]
		}

		run.Candidates = append(run.Candidates, prior...)
		for _, w := range windows {
			if w.Score >= in.Minimum {
				run.Candidates = append(run.Candidates, w)
			}
		}
		run.Candidates = append(run.Candidates, e.data.Find(in)...)
	}
	return run
}
