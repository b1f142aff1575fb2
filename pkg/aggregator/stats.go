package aggregator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/qgc-crawler/models"
)

// Stats accumulates ProcessingStats for one run. Safe for concurrent use.
type Stats struct {
	mu    sync.Mutex
	start time.Time
	s     models.ProcessingStats
}

func NewStats(pages, totalClients int, cacheHit bool) *Stats {
	now := time.Now()
	return &Stats{
		start: now,
		s: models.ProcessingStats{
			RunID:                uuid.NewString(),
			StartedAt:            now.UTC(),
			Pages:                pages,
			TotalClients:         totalClients,
			CandidatesByStrategy: make(map[models.Strategy]int),
			FoundBySection:       make(map[models.SectionName]int),
			CacheHit:             cacheHit,
		},
	}
}

// Record adds one client's result.
func (st *Stats) Record(r models.ClientResult) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.ProcessedClients++
	for _, c := range r.AllMatches {
		st.s.CandidatesByStrategy[c.Strategy]++
	}
	if r.BestMatch == nil {
		return
	}

	bucket := r.BestMatch.Score / 10
	if bucket >= models.HistogramBuckets {
		bucket = models.HistogramBuckets - 1
	}
	st.s.ConfidenceHistogram[bucket]++

	if r.Found {
		st.s.FoundClients++
		section := models.SectionOther
		if r.BestMatch.Section != nil {
			section = r.BestMatch.Section.Name
		}
		st.s.FoundBySection[section]++
	}
}

// Anomaly records n skipped items with a diagnostic note.
func (st *Stats) Anomaly(n int, note string) {
	if n == 0 {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Anomalies += n
	st.s.Notes = append(st.s.Notes, note)
}

func (st *Stats) Note(note string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Notes = append(st.s.Notes, note)
}

// Cancel marks the run as stopped before every client was processed.
func (st *Stats) Cancel() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Cancelled = true
}

// Snapshot returns a copy of the stats with the elapsed time filled in.
func (st *Stats) Snapshot() models.ProcessingStats {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := st.s
	out.Elapsed = time.Since(st.start)
	out.CandidatesByStrategy = make(map[models.Strategy]int, len(st.s.CandidatesByStrategy))
	for k, v := range st.s.CandidatesByStrategy {
		out.CandidatesByStrategy[k] = v
	}
	out.FoundBySection = make(map[models.SectionName]int, len(st.s.FoundBySection))
	for k, v := range st.s.FoundBySection {
		out.FoundBySection[k] = v
	}
	out.Notes = append([]string(nil), st.s.Notes...)
	return out
}
