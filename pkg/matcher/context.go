package matcher

import (
	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/contextual"
)

const (
	contextBonus   = 5
	contextPenalty = 10
)

// ContextWindow re-scores earlier candidates by what surrounds them: a
// creditor row usually carries an amount or an identifier.
type ContextWindow struct{}

func (ContextWindow) Kind() models.Strategy { return models.StrategyContextWindow }

func (ContextWindow) Find(in Input) []models.MatchCandidate {
	type span struct{ offset, length int }
	best := make(map[span]int)
	var order []span
	for _, p := range in.Prior {
		key := span{p.Offset, p.Length}
		score, ok := best[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || p.Score > score {
			best[key] = p.Score
		}
	}

	text := in.Corpus.Doc.FullText
	out := make([]models.MatchCandidate, 0, len(order))
	for _, key := range order {
		window, from := contextual.Window(text, key.offset, key.offset+key.length)
		data := contextual.Extract(window, from)

		score := best[key]
		if len(data) > 0 {
			score += contextBonus
		} else {
			score -= contextPenalty
		}
		score = clampScore(score)

		c := in.Corpus.sourceCandidate(models.StrategyContextWindow, in.Target.Name, score, key.offset, key.offset+key.length)
		c.ContextText = window
		c.Data = data
		c.Detail = "Contexto"
		out = append(out, c)
	}
	return out
}

func clampScore(s int) int {
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}
