package crawler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/caching"
	"github.com/dtnitsch/qgc-crawler/pkg/detector"
)

const qgcDocument = "QUADRO GERAL DE CREDORES\nRecuperação Judicial de Acme S.A.\n\n" +
	"CLASSE I - CREDORES TRABALHISTAS\n" +
	"JOÃO SILVA R$ 12.345,67 CPF 123.456.789-00\n" +
	"MARIA SOUZA R$ 2.000,00\n" +
	"\fCLASSE III - CREDORES QUIROGRAFÁRIOS\n" +
	"FORNECEDOR BETA LTDA R$ 15.000,00 CNPJ 11.222.333/0001-81\n" +
	"PADARIA GAMA R$ 800,00\n"

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// countingStore wraps a store and counts the puts that reached it.
type countingStore struct {
	caching.Store
	puts atomic.Int32
}

func (c *countingStore) Put(ctx context.Context, fp string, e caching.Entry) error {
	c.puts.Add(1)
	return c.Store.Put(ctx, fp, e)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (caching.Entry, bool, error) {
	return caching.Entry{}, false, models.CacheIOError("disk gone", nil)
}
func (brokenStore) Put(context.Context, string, caching.Entry) error {
	return models.CacheIOError("disk gone", nil)
}
func (brokenStore) Delete(context.Context, string) error { return nil }
func (brokenStore) Clear(context.Context) error          { return nil }

func newEngine(store caching.Store, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = quietLogger
	}
	classifier := detector.New(models.DefaultConfig().Classifier, nil)
	return New(store, classifier, opts)
}

func TestIngestIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: caching.NewMemoryStore()}
	e := newEngine(store, Options{})

	h1, class1, sections1, err := e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)
	assert.False(t, h1.CacheHit)
	assert.Equal(t, models.DocumentQGC, class1.DocumentType)
	assert.Len(t, h1.Document.Pages, 2)

	h2, class2, sections2, err := e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)
	assert.True(t, h2.CacheHit)
	assert.Equal(t, h1.Fingerprint, h2.Fingerprint)
	assert.Equal(t, class1, class2)
	assert.Equal(t, sections1, sections2)
	assert.Equal(t, int32(1), store.puts.Load())
}

func TestIngestConcurrentSameBytes(t *testing.T) {
	store := &countingStore{Store: caching.NewMemoryStore()}
	e := newEngine(store, Options{})

	var wg sync.WaitGroup
	fingerprints := make([]string, 8)
	for i := range fingerprints {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, _, _, err := e.Ingest(context.Background(), []byte(qgcDocument))
			if assert.NoError(t, err) {
				fingerprints[i] = h.Fingerprint
			}
		}(i)
	}
	wg.Wait()

	for _, fp := range fingerprints {
		assert.Equal(t, caching.Fingerprint([]byte(qgcDocument)), fp)
	}
	assert.LessOrEqual(t, store.puts.Load(), int32(8))
	_, found, err := store.Get(context.Background(), fingerprints[0])
	require.NoError(t, err)
	assert.True(t, found)
}

func TestIngestCacheFailureIsMiss(t *testing.T) {
	e := newEngine(brokenStore{}, Options{})
	h, class, _, err := e.Ingest(context.Background(), []byte(qgcDocument))
	require.NoError(t, err)
	assert.False(t, h.CacheHit)
	assert.Equal(t, models.DocumentQGC, class.DocumentType)
}

func TestIngestExtractionError(t *testing.T) {
	e := newEngine(caching.NewMemoryStore(), Options{})
	_, _, _, err := e.Ingest(context.Background(), []byte("   \n\f  "))
	assert.True(t, errors.Is(err, models.ErrExtraction))
}

func TestMatchClientsScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(caching.NewMemoryStore(), Options{})
	h, _, _, err := e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)

	clients := models.NewClientTargets([]string{"João Silva", "Fornecedor Beta Ltda", "Cliente Inexistente"})
	results, stats, err := e.MatchClients(ctx, h, clients, models.DefaultTolerance())
	require.NoError(t, err)
	require.Len(t, results, 3)

	joao := results[0]
	require.True(t, joao.Found)
	assert.Equal(t, models.StrategyExact, joao.BestMatch.Strategy)
	assert.Equal(t, 100, joao.BestMatch.Score)
	require.NotNil(t, joao.BestMatch.Section)
	assert.Equal(t, models.SectionLaborCreditors, joao.BestMatch.Section.Name)
	assert.Contains(t, joao.Values(), "R$ 12.345,67")
	assert.Contains(t, joao.Identifiers(), "123.456.789-00")

	beta := results[1]
	require.True(t, beta.Found)
	assert.Equal(t, 2, beta.BestMatch.Page)
	assert.Equal(t, models.SectionUnsecuredCreditors, beta.BestMatch.Section.Name)

	assert.False(t, results[2].Found)
	assert.Equal(t, "Cliente Inexistente", results[2].Client.Name)

	assert.Equal(t, 3, stats.TotalClients)
	assert.Equal(t, 3, stats.ProcessedClients)
	assert.Equal(t, 2, stats.FoundClients)
	assert.Equal(t, 2, stats.Pages)
	assert.False(t, stats.Cancelled)
	assert.NotEmpty(t, stats.RunID)
}

func TestMatchClientsRejectsTolerance(t *testing.T) {
	ctx := context.Background()
	e := newEngine(caching.NewMemoryStore(), Options{})
	h, _, _, err := e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)

	_, _, err = e.MatchClients(ctx, h, models.NewClientTargets([]string{"x"}), models.ToleranceConfig{MinimumScore: 30})
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	_, _, err = e.MatchClients(ctx, nil, nil, models.DefaultTolerance())
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestMatchClientsNotesOutOfRangeTolerance(t *testing.T) {
	ctx := context.Background()
	e := newEngine(caching.NewMemoryStore(), Options{})
	h, _, _, err := e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)

	_, stats, err := e.MatchClients(ctx, h, models.NewClientTargets([]string{"Maria Souza"}), models.ToleranceConfig{MinimumScore: 95})
	require.NoError(t, err)
	assert.NotEmpty(t, stats.Notes)
}

// cancelOnBatch cancels the run after the first batch is logged.
type cancelOnBatch struct {
	slog.Handler
	cancel context.CancelFunc
}

func (c cancelOnBatch) Enabled(context.Context, slog.Level) bool { return true }

func (c cancelOnBatch) Handle(ctx context.Context, r slog.Record) error {
	if r.Message == "batch matched" {
		c.cancel()
	}
	return nil
}

func (c cancelOnBatch) WithAttrs([]slog.Attr) slog.Handler { return c }

func TestMatchClientsCancellationReturnsSubset(t *testing.T) {
	names := []string{"João Silva", "Maria Souza", "Fornecedor Beta", "Padaria Gama", "Ninguém Aqui"}
	clients := models.NewClientTargets(names)

	full := newEngine(caching.NewMemoryStore(), Options{BatchSize: 2, Workers: 2})
	h, _, _, err := full.Ingest(context.Background(), []byte(qgcDocument))
	require.NoError(t, err)
	want, _, err := full.MatchClients(context.Background(), h, clients, models.DefaultTolerance())
	require.NoError(t, err)
	require.Len(t, want, len(names))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := slog.New(cancelOnBatch{Handler: slog.NewTextHandler(io.Discard, nil), cancel: cancel})
	e := newEngine(caching.NewMemoryStore(), Options{BatchSize: 2, Workers: 2, Logger: logger})
	h, _, _, err = e.Ingest(context.Background(), []byte(qgcDocument))
	require.NoError(t, err)

	got, stats, err := e.MatchClients(ctx, h, clients, models.DefaultTolerance())
	require.NoError(t, err)
	assert.True(t, stats.Cancelled)
	require.Len(t, got, 2)
	assert.Equal(t, 2, stats.ProcessedClients)
	for i := range got {
		assert.Equal(t, want[i].Client, got[i].Client)
		assert.Equal(t, want[i].Found, got[i].Found)
		assert.Equal(t, want[i].BestMatch.Score, got[i].BestMatch.Score)
	}
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	store := caching.NewMemoryStore()
	e := newEngine(store, Options{})

	h, _, _, err := e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)
	require.NoError(t, e.ClearCache(ctx, h.Fingerprint))

	h, _, _, err = e.Ingest(ctx, []byte(qgcDocument))
	require.NoError(t, err)
	assert.False(t, h.CacheHit)

	require.NoError(t, e.ClearAllCache(ctx))
	_, found, err := store.Get(ctx, h.Fingerprint)
	require.NoError(t, err)
	assert.False(t, found)
}
