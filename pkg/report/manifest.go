package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/analytics"
	"github.com/dtnitsch/qgc-crawler/pkg/mapreduce"
)

const summaryKeywords = 25

// SummaryManifest is the JSON overview of a run printed after matching.
// It carries the counts and per-client outcome without the full candidate lists.
type SummaryManifest struct {
	GeneratedAt  string                       `json:"generated_at"`
	RunID        string                       `json:"run_id"`
	Fingerprint  string                       `json:"fingerprint,omitempty"`
	DocumentType models.DocumentType          `json:"document_type,omitempty"`
	Confidence   int                          `json:"confidence"`
	Pages        int                          `json:"pages"`
	TotalClients int                          `json:"total_clients"`
	Processed    int                          `json:"processed"`
	Found        int                          `json:"found"`
	SuccessRate  float64                      `json:"success_rate"`
	MinimumScore int                          `json:"minimum_score"`
	ElapsedMS    int64                        `json:"elapsed_ms"`
	CacheHit     bool                         `json:"cache_hit"`
	Cancelled    bool                         `json:"cancelled"`
	Anomalies    int                          `json:"anomalies"`
	Notes        []string                     `json:"notes,omitempty"`
	ByStrategy   map[models.Strategy]int      `json:"candidates_by_strategy"`
	BySection    map[models.SectionName]int   `json:"found_by_section"`
	Histogram    [models.HistogramBuckets]int `json:"confidence_histogram"`
	TopKeywords  []string                     `json:"top_keywords,omitempty"`
	OutputFile   string                       `json:"output_file,omitempty"`
	Results      []ClientSummary              `json:"results"`
}

// ClientSummary is the outcome for one client.
type ClientSummary struct {
	Client      string          `json:"client"`
	Found       bool            `json:"found"`
	Score       int             `json:"score"`
	Strategy    models.Strategy `json:"strategy,omitempty"`
	Section     string          `json:"section,omitempty"`
	Page        int             `json:"page,omitempty"`
	Values      []string        `json:"values,omitempty"`
	Identifiers []string        `json:"identifiers,omitempty"`
}

// BuildSummary condenses a run into a SummaryManifest.
func BuildSummary(run Run, outputFile string) SummaryManifest {
	s := run.Stats
	manifest := SummaryManifest{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		RunID:        s.RunID,
		Pages:        s.Pages,
		TotalClients: s.TotalClients,
		Processed:    s.ProcessedClients,
		Found:        s.FoundClients,
		SuccessRate:  s.SuccessRate(),
		MinimumScore: run.Tolerance.MinimumScore,
		ElapsedMS:    s.Elapsed.Milliseconds(),
		CacheHit:     s.CacheHit,
		Cancelled:    s.Cancelled,
		Anomalies:    s.Anomalies,
		Notes:        s.Notes,
		ByStrategy:   s.CandidatesByStrategy,
		BySection:    s.FoundBySection,
		Histogram:    s.ConfidenceHistogram,
		OutputFile:   outputFile,
		Results:      make([]ClientSummary, 0, len(run.Results)),
	}

	if doc := run.Document; doc != nil {
		manifest.Fingerprint = doc.Fingerprint
		manifest.DocumentType = doc.Classification.DocumentType
		manifest.Confidence = doc.Classification.Confidence
		manifest.TopKeywords = mapreduce.TopKeywords(mapreduce.Pages(doc.Pages, &analytics.Analytics{}), summaryKeywords)
	}

	for _, r := range run.Results {
		summary := ClientSummary{
			Client: r.Client.Name,
			Found:  r.Found,
		}
		if best := r.BestMatch; best != nil {
			summary.Score = best.Score
			summary.Strategy = best.Strategy
			summary.Page = best.Page
			if best.Section != nil {
				summary.Section = string(best.Section.Name)
			}
			summary.Values = r.Values()
			summary.Identifiers = r.Identifiers()
		}
		manifest.Results = append(manifest.Results, summary)
	}
	return manifest
}

// WriteJSON writes the manifest as indented JSON.
func WriteJSON(w io.Writer, manifest SummaryManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}
	return nil
}
