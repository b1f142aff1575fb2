package matcher

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/qgc-crawler/models"
)

// FuzzyFloor is the lowest similarity FuzzyStrict ever accepts. Looser
// thresholds matched unrelated creditors.
const FuzzyFloor = 88

// FuzzyStrict compares token windows of the name's length, plus or minus one
// word, against the folded name.
type FuzzyStrict struct{}

func (FuzzyStrict) Kind() models.Strategy { return models.StrategyFuzzyStrict }

func (FuzzyStrict) Find(in Input) []models.MatchCandidate {
	k := len(in.NameWords)
	if k == 0 {
		return nil
	}
	floor := FuzzyFloor
	if in.Minimum > floor {
		floor = in.Minimum
	}
	name := join(in.NameWords)
	first, lastWord := in.NameWords[0], in.NameWords[k-1]
	tokens := in.Corpus.Tokens

	type hit struct {
		from, to int
		score    int
	}
	var hits []hit

	for i := in.Scope.TStart; i < in.Scope.TEnd; i++ {
		best := hit{score: -1}
		for _, w := range []int{k, k - 1, k + 1} {
			if w < 1 || i+w > in.Scope.TEnd {
				continue
			}
			head, tail := tokens[i].Text, tokens[i+w-1].Text
			// a near match keeps at least one of the name's outer letters in place
			if head[0] != first[0] && tail[len(tail)-1] != lastWord[len(lastWord)-1] {
				continue
			}
			window := in.Corpus.tokenWords(i, i+w)
			if join(window) == name {
				continue
			}
			sim := WordsSimilarity(window, in.NameWords, float64(floor))
			if score := int(sim); score >= floor && score > best.score {
				best = hit{from: i, to: i + w, score: score}
			}
		}
		if best.score >= 0 {
			hits = append(hits, best)
		}
	}

	// overlapping windows describe the same text; keep the strongest
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	taken := make([]hit, 0, len(hits))
	var out []models.MatchCandidate
	for _, h := range hits {
		overlaps := false
		for _, t := range taken {
			if h.from < t.to && t.from < h.to {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		taken = append(taken, h)
		c := in.Corpus.candidate(models.StrategyFuzzyStrict, in.Target.Name, h.score, tokens[h.from].Start, tokens[h.to-1].End)
		c.Detail = fmt.Sprintf("Fuzzy (%d%%)", h.score)
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Offset < out[b].Offset })
	return out
}
