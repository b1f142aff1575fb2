package matcher

import (
	"fmt"
	"math"

	"github.com/dtnitsch/qgc-crawler/models"
)

const (
	minWordsPresent  = 2
	minWordFraction  = 0.6
	wordScoreCeiling = 95.0
	// extra tokens allowed in a window beyond the name's own length
	wordWindowSlack = 2
)

// WordBased scores token windows by how many significant name words they
// contain and whether they appear in name order.
type WordBased struct{}

func (WordBased) Kind() models.Strategy { return models.StrategyWordBased }

func (WordBased) Find(in Input) []models.MatchCandidate {
	words := in.Significant
	if len(words) < minWordsPresent {
		return nil
	}
	position := make(map[string]int, len(words))
	for i, w := range words {
		position[w] = i
	}

	tokens := in.Corpus.Tokens
	span := len(in.NameWords) + wordWindowSlack

	var out []models.MatchCandidate
	for i := in.Scope.TStart; i < in.Scope.TEnd; {
		if _, ok := position[tokens[i].Text]; !ok {
			i++
			continue
		}

		end := i + span
		if end > in.Scope.TEnd {
			end = in.Scope.TEnd
		}
		seen := make(map[int]bool, len(words))
		var order []int
		last := i
		for j := i; j < end; j++ {
			p, ok := position[tokens[j].Text]
			if !ok || seen[p] {
				continue
			}
			seen[p] = true
			order = append(order, p)
			last = j
		}

		found := len(order)
		fraction := float64(found) / float64(len(words))
		if found < minWordsPresent || fraction < minWordFraction {
			i++
			continue
		}

		orderRatio := float64(longestIncreasing(order)) / float64(found)
		score := int(math.Round(wordScoreCeiling * (0.8*fraction + 0.2*orderRatio)))

		c := in.Corpus.candidate(models.StrategyWordBased, in.Target.Name, score, tokens[i].Start, tokens[last].End)
		c.Detail = fmt.Sprintf("Palavras (%d/%d)", found, len(words))
		out = append(out, c)
		i = last + 1
	}
	return out
}

// longestIncreasing returns the length of the longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) int {
	best := make([]int, len(seq))
	longest := 0
	for i := range seq {
		best[i] = 1
		for j := 0; j < i; j++ {
			if seq[j] < seq[i] && best[j]+1 > best[i] {
				best[i] = best[j] + 1
			}
		}
		if best[i] > longest {
			longest = best[i]
		}
	}
	return longest
}
