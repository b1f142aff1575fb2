package aggregator

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/matcher"
)

func cand(kind models.Strategy, score, offset, length int) models.MatchCandidate {
	return models.MatchCandidate{Client: "x", Strategy: kind, Score: score, Offset: offset, Length: length}
}

func TestTieBreakOrder(t *testing.T) {
	tests := []struct {
		name string
		a, b models.MatchCandidate
	}{
		{"higher score", cand(models.StrategyContextWindow, 91, 50, 5), cand(models.StrategyExact, 90, 0, 5)},
		{"exact over word", cand(models.StrategyExact, 95, 50, 5), cand(models.StrategyWordBased, 95, 0, 5)},
		{"word over data", cand(models.StrategyWordBased, 90, 50, 5), cand(models.StrategyDataDriven, 90, 0, 5)},
		{"data over fuzzy", cand(models.StrategyDataDriven, 90, 50, 5), cand(models.StrategyFuzzyStrict, 90, 0, 5)},
		{"fuzzy over context", cand(models.StrategyFuzzyStrict, 90, 50, 5), cand(models.StrategyContextWindow, 90, 0, 5)},
		{"earlier offset", cand(models.StrategyExact, 100, 10, 5), cand(models.StrategyExact, 100, 20, 5)},
		{"shorter span", cand(models.StrategyWordBased, 90, 10, 5), cand(models.StrategyWordBased, 90, 10, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Less(tt.a, tt.b))
			assert.False(t, Less(tt.b, tt.a))
		})
	}
}

func TestBestMatchStableUnderShuffle(t *testing.T) {
	cands := []models.MatchCandidate{
		cand(models.StrategyFuzzyStrict, 92, 5, 10),
		cand(models.StrategyWordBased, 92, 40, 10),
		cand(models.StrategyDataDriven, 92, 1, 14),
		cand(models.StrategyContextWindow, 97, 40, 10),
		cand(models.StrategyContextWindow, 97, 5, 10),
		cand(models.StrategyWordBased, 80, 0, 3),
	}
	want := Aggregate(matcher.Run{Candidates: cands, EffectiveMinimum: 80})
	require.NotNil(t, want.BestMatch)
	assert.Equal(t, 5, want.BestMatch.Offset)
	assert.Equal(t, models.StrategyContextWindow, want.BestMatch.Strategy)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]models.MatchCandidate(nil), cands...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Aggregate(matcher.Run{Candidates: shuffled, EffectiveMinimum: 80})
		assert.Equal(t, *want.BestMatch, *got.BestMatch)
		assert.Equal(t, want.AllMatches, got.AllMatches)
	}
}

func TestAggregateFound(t *testing.T) {
	tests := []struct {
		name      string
		cands     []models.MatchCandidate
		minimum   int
		wantFound bool
		wantBest  bool
	}{
		{"no candidates", nil, 80, false, false},
		{"exact", []models.MatchCandidate{cand(models.StrategyExact, 100, 0, 4)}, 90, true, true},
		{"identifier below minimum", []models.MatchCandidate{cand(models.StrategyDataDriven, 76, 0, 11)}, 80, false, true},
		{"at minimum", []models.MatchCandidate{cand(models.StrategyWordBased, 85, 0, 4)}, 85, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Aggregate(matcher.Run{Candidates: tt.cands, EffectiveMinimum: tt.minimum})
			assert.Equal(t, tt.wantFound, r.Found)
			assert.Equal(t, tt.wantBest, r.BestMatch != nil)
			if r.BestMatch != nil {
				assert.Same(t, &r.AllMatches[0], r.BestMatch)
			}
			assert.Equal(t, tt.minimum, r.EffectiveMinimum)
		})
	}
}

func TestFoldData(t *testing.T) {
	money := models.ExtractedDatum{Kind: models.DatumMonetary, RawText: "R$ 1,00", DocumentOffset: 30}
	id := models.ExtractedDatum{Kind: models.DatumIdentifier, RawText: "529.982.247-25", DocumentOffset: 10}

	w1 := cand(models.StrategyContextWindow, 100, 0, 5)
	w1.Data = []models.ExtractedDatum{money}
	w2 := cand(models.StrategyContextWindow, 90, 20, 5)
	w2.Data = []models.ExtractedDatum{id, money}
	exact := cand(models.StrategyExact, 100, 0, 5)
	exact.Data = []models.ExtractedDatum{{DocumentOffset: 99}}

	r := Aggregate(matcher.Run{Candidates: []models.MatchCandidate{w1, w2, exact}, EffectiveMinimum: 80})
	require.Len(t, r.ExtractedData, 2)
	assert.Equal(t, 10, r.ExtractedData[0].DocumentOffset)
	assert.Equal(t, 30, r.ExtractedData[1].DocumentOffset)
	assert.Equal(t, []string{"R$ 1,00"}, r.Values())
	assert.Equal(t, []string{"529.982.247-25"}, r.Identifiers())
}

func TestStats(t *testing.T) {
	labor := &models.Section{Name: models.SectionLaborCreditors}
	found := Aggregate(matcher.Run{
		Candidates:       []models.MatchCandidate{{Strategy: models.StrategyExact, Score: 100, Length: 3, Section: labor}},
		EffectiveMinimum: 80,
	})
	weak := Aggregate(matcher.Run{
		Candidates:       []models.MatchCandidate{{Strategy: models.StrategyDataDriven, Score: 77, Length: 11}},
		EffectiveMinimum: 80,
	})
	none := Aggregate(matcher.Run{EffectiveMinimum: 80})

	st := NewStats(3, 4, true)
	var wg sync.WaitGroup
	for _, r := range []models.ClientResult{found, weak, none} {
		wg.Add(1)
		go func(r models.ClientResult) {
			defer wg.Done()
			st.Record(r)
		}(r)
	}
	wg.Wait()
	st.Anomaly(2, "2 malformed identifiers skipped")
	st.Anomaly(0, "ignored")

	snap := st.Snapshot()
	assert.NotEmpty(t, snap.RunID)
	assert.Equal(t, 3, snap.Pages)
	assert.Equal(t, 4, snap.TotalClients)
	assert.Equal(t, 3, snap.ProcessedClients)
	assert.Equal(t, 1, snap.FoundClients)
	assert.True(t, snap.CacheHit)
	assert.False(t, snap.Cancelled)
	assert.Equal(t, 1, snap.CandidatesByStrategy[models.StrategyExact])
	assert.Equal(t, 1, snap.CandidatesByStrategy[models.StrategyDataDriven])
	assert.Equal(t, 1, snap.FoundBySection[models.SectionLaborCreditors])
	assert.Equal(t, 1, snap.ConfidenceHistogram[9])
	assert.Equal(t, 1, snap.ConfidenceHistogram[7])
	assert.Equal(t, 2, snap.Anomalies)
	assert.Len(t, snap.Notes, 1)
	assert.InDelta(t, 33.33, snap.SuccessRate(), 0.01)

	snap.CandidatesByStrategy[models.StrategyExact] = 99
	assert.Equal(t, 1, st.Snapshot().CandidatesByStrategy[models.StrategyExact], "snapshot is a copy")

	st.Cancel()
	assert.True(t, st.Snapshot().Cancelled)
}
