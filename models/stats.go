package models

import "time"

// HistogramBuckets is the number of 10-point buckets in the confidence histogram.
const HistogramBuckets = 10

// ProcessingStats describes a MatchClients run. Read-only once returned.
type ProcessingStats struct {
	RunID                string                `json:"run_id"`
	StartedAt            time.Time             `json:"started_at"`
	Elapsed              time.Duration         `json:"elapsed"`
	Pages                int                   `json:"pages"`
	TotalClients         int                   `json:"total_clients"`
	ProcessedClients     int                   `json:"processed_clients"`
	FoundClients         int                   `json:"found_clients"`
	CandidatesByStrategy map[Strategy]int      `json:"candidates_by_strategy"`
	FoundBySection       map[SectionName]int   `json:"found_by_section"`
	ConfidenceHistogram  [HistogramBuckets]int `json:"confidence_histogram"`
	Anomalies            int                   `json:"anomalies"`
	Notes                []string              `json:"notes,omitempty"`
	Cancelled            bool                  `json:"cancelled"`
	CacheHit             bool                  `json:"cache_hit"`
}

// SuccessRate returns found/processed as a percentage.
func (s ProcessingStats) SuccessRate() float64 {
	if s.ProcessedClients == 0 {
		return 0
	}
	return float64(s.FoundClients) / float64(s.ProcessedClients) * 100
}
