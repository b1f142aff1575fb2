// Package crawler is the entry point for callers: it ingests a document once
// and matches client lists against it.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/aggregator"
	"github.com/dtnitsch/qgc-crawler/pkg/caching"
	"github.com/dtnitsch/qgc-crawler/pkg/detector"
	"github.com/dtnitsch/qgc-crawler/pkg/matcher"
	"github.com/dtnitsch/qgc-crawler/pkg/pages"
	"github.com/dtnitsch/qgc-crawler/pkg/segmenter"
)

// Options tunes an Engine. Zero values fall back to the defaults.
type Options struct {
	Workers   int
	BatchSize int
	Logger    *slog.Logger
}

// Engine ties the cache, classifier and matcher together. It is safe for
// concurrent use.
type Engine struct {
	store      caching.Store
	classifier *detector.Classifier
	matcher    *matcher.Engine
	logger     *slog.Logger
	workers    int
	batchSize  int

	ingests singleflight.Group
}

// Handle is an ingested document, ready to be matched. Handles are read-only
// and may be shared between goroutines.
type Handle struct {
	Fingerprint string
	Document    *models.Document
	CacheHit    bool

	corpus *matcher.Corpus
}

func New(store caching.Store, classifier *detector.Classifier, opts Options) *Engine {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = models.DefaultConfig().BatchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		store:      store,
		classifier: classifier,
		matcher:    matcher.New(),
		logger:     opts.Logger,
		workers:    opts.Workers,
		batchSize:  opts.BatchSize,
	}
}

// Ingest extracts, classifies and segments a document. Pages come from the
// cache when the same bytes were ingested before. Concurrent calls with the
// same bytes share one extraction.
func (e *Engine) Ingest(ctx context.Context, data []byte) (*Handle, models.ClassificationResult, []models.Section, error) {
	fingerprint := caching.Fingerprint(data)

	v, err, shared := e.ingests.Do(fingerprint, func() (any, error) {
		return e.ingest(ctx, fingerprint, data)
	})
	if err != nil {
		return nil, models.ClassificationResult{}, nil, err
	}
	h := v.(*Handle)
	if shared {
		e.logger.Debug("ingest shared", "fingerprint", fingerprint)
	}

	sections := append([]models.Section(nil), h.Document.Sections...)
	return h, h.Document.Classification, sections, nil
}

func (e *Engine) ingest(ctx context.Context, fingerprint string, data []byte) (*Handle, error) {
	start := time.Now()
	logger := e.logger.With("fingerprint", fingerprint)

	entry, hit, err := e.store.Get(ctx, fingerprint)
	if err != nil {
		logger.Warn("cache read failed, extracting", "error", err)
		hit = false
	}

	if !hit {
		extracted, err := pages.Extract(ctx, data)
		if err != nil {
			return nil, err
		}
		entry = caching.Entry{Pages: extracted, CreatedAt: time.Now().UTC()}
		if err := e.store.Put(ctx, fingerprint, entry); err != nil {
			logger.Warn("cache write failed", "error", err)
		}
	}

	doc := models.NewDocument(fingerprint, entry.Pages)
	doc.Classification = e.classifier.Classify(doc.Pages)
	doc.Sections = segmenter.Segment(doc.FullText)

	h := &Handle{
		Fingerprint: fingerprint,
		Document:    doc,
		CacheHit:    hit,
		corpus:      matcher.NewCorpus(doc),
	}

	logger.Info("document ingested",
		"pages", len(doc.Pages),
		"cache_hit", hit,
		"document_type", doc.Classification.DocumentType,
		"confidence", doc.Classification.Confidence,
		"sections", len(doc.Sections),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return h, nil
}

// MatchClients matches every client against the document. Cancelling ctx
// stops the run between batches; the clients finished so far are returned
// with Cancelled set and a nil error.
func (e *Engine) MatchClients(ctx context.Context, h *Handle, clients []models.ClientTarget, cfg models.ToleranceConfig) ([]models.ClientResult, models.ProcessingStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, models.ProcessingStats{}, err
	}
	if h == nil || h.corpus == nil {
		return nil, models.ProcessingStats{}, models.ConfigurationError("document handle is not ingested")
	}

	stats := aggregator.NewStats(len(h.Document.Pages), len(clients), h.CacheHit)
	if n := h.corpus.Anomalies(); n > 0 {
		stats.Anomaly(n, fmt.Sprintf("%d malformed identifiers skipped", n))
	}
	if !cfg.Recommended() {
		stats.Note(fmt.Sprintf("minimum score %d outside recommended range %d-%d",
			cfg.MinimumScore, models.RecommendedScoreLow, models.RecommendedScoreHigh))
	}

	logger := e.logger.With("fingerprint", h.Fingerprint)
	results := make([]models.ClientResult, 0, len(clients))

	for start := 0; start < len(clients); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			stats.Cancel()
			logger.Info("match cancelled", "processed", len(results), "total", len(clients))
			break
		}

		batch := clients[start:min(start+e.batchSize, len(clients))]
		out := make([]models.ClientResult, len(batch))

		var g errgroup.Group
		g.SetLimit(e.workers)
		for i, client := range batch {
			g.Go(func() error {
				out[i] = aggregator.Aggregate(e.matcher.Match(h.corpus, client, cfg))
				return nil
			})
		}
		_ = g.Wait() // workers never fail

		for _, r := range out {
			stats.Record(r)
		}
		results = append(results, out...)
		logger.Debug("batch matched", "processed", len(results), "total", len(clients))
	}

	snapshot := stats.Snapshot()
	logger.Info("match finished",
		"run_id", snapshot.RunID,
		"processed", snapshot.ProcessedClients,
		"found", snapshot.FoundClients,
		"cancelled", snapshot.Cancelled,
		"duration_ms", snapshot.Elapsed.Milliseconds(),
	)
	return results, snapshot, nil
}

// ClearCache drops the cached pages of one document.
func (e *Engine) ClearCache(ctx context.Context, fingerprint string) error {
	return e.store.Delete(ctx, fingerprint)
}

// ClearAllCache drops every cached document.
func (e *Engine) ClearAllCache(ctx context.Context) error {
	return e.store.Clear(ctx)
}
