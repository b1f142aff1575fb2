// Package aggregator collapses the candidates of each client into a result
// and accumulates run statistics.
package aggregator

import (
	"sort"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/matcher"
)

// Less orders candidates best first: higher score, then strategy preference,
// then earlier offset, then shorter span.
func Less(a, b models.MatchCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if pa, pb := a.Strategy.Preference(), b.Strategy.Preference(); pa != pb {
		return pa < pb
	}
	if a.Offset != b.Offset {
		return a.Offset < b.Offset
	}
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	return a.Detail < b.Detail
}

// Aggregate builds the ClientResult of one run. The input is not modified.
func Aggregate(run matcher.Run) models.ClientResult {
	all := make([]models.MatchCandidate, len(run.Candidates))
	copy(all, run.Candidates)
	sort.SliceStable(all, func(i, j int) bool { return Less(all[i], all[j]) })

	result := models.ClientResult{
		Client:           run.Target,
		AllMatches:       all,
		ExtractedData:    foldData(all),
		EffectiveMinimum: run.EffectiveMinimum,
	}
	if len(all) > 0 {
		result.BestMatch = &result.AllMatches[0]
		result.Found = result.BestMatch.Score >= run.EffectiveMinimum
	}
	return result
}

// foldData merges the data of context-window candidates, one datum per
// document offset, in document order.
func foldData(cands []models.MatchCandidate) []models.ExtractedDatum {
	seen := make(map[int]struct{})
	data := []models.ExtractedDatum{}
	for _, c := range cands {
		if c.Strategy != models.StrategyContextWindow {
			continue
		}
		for _, d := range c.Data {
			if _, dup := seen[d.DocumentOffset]; dup {
				continue
			}
			seen[d.DocumentOffset] = struct{}{}
			data = append(data, d)
		}
	}
	sort.SliceStable(data, func(i, j int) bool { return data[i].DocumentOffset < data[j].DocumentOffset })
	return data
}
