package match

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/qgc-crawler/internal/common"
	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/clientlist"
	"github.com/dtnitsch/qgc-crawler/pkg/db"
	"github.com/dtnitsch/qgc-crawler/pkg/fetcher"
	"github.com/dtnitsch/qgc-crawler/pkg/report"
)

// MatchAction matches a client list against a document, writes the xlsx
// report and prints the run summary as JSON.
func MatchAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(logger, "invalid configuration", err)
	}
	if c.IsSet("tolerance") {
		cfg.Tolerance.MinimumScore = c.Int("tolerance")
	}
	if c.IsSet("short-name-boost") {
		cfg.Tolerance.ShortNameBoost = c.Bool("short-name-boost")
	}
	if c.IsSet("section-scoping") {
		cfg.Tolerance.SectionScoping = c.Bool("section-scoping")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if err := cfg.Validate(); err != nil {
		return common.Fail(logger, "invalid configuration", err)
	}

	clients, err := clientlist.Read(c.String("clients"))
	if err != nil {
		return common.Fail(logger, "failed to read client list", err)
	}

	data, err := fetcher.NewFetcher().Load(c.Context, c.String("document"))
	if err != nil {
		return common.Fail(logger, "failed to load document", err)
	}

	engine, closer, err := common.OpenEngine(cfg, logger)
	if err != nil {
		return common.Fail(logger, "failed to open cache", err)
	}
	defer closer.Close()

	// Ctrl-C stops matching between batches and keeps what was finished
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	handle, _, _, err := engine.Ingest(ctx, data)
	if err != nil {
		return common.Fail(logger, "failed to ingest document", err)
	}

	results, stats, err := engine.MatchClients(ctx, handle, clients, cfg.Tolerance)
	if err != nil {
		return common.Fail(logger, "failed to match clients", err)
	}

	run := report.Run{
		Document:  handle.Document,
		Results:   results,
		Stats:     stats,
		Tolerance: cfg.Tolerance,
	}

	output := c.String("output")
	if output == "" {
		output = fmt.Sprintf("qgc_resultados_%s.xlsx", time.Now().Format("20060102_150405"))
	}
	if err := writeReport(output, run); err != nil {
		return common.Fail(logger, "failed to write report", err)
	}

	recordRun(context.Background(), cfg, handle.Document, stats, cfg.Tolerance, logger)

	return common.PrintJSON(report.BuildSummary(run, output), c.String("fields"))
}

func writeReport(path string, run report.Run) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.WriteXLSX(f, run); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// recordRun stores the run summary in the history database. Failures are
// logged and never fail the command.
func recordRun(ctx context.Context, cfg models.Config, doc *models.Document, stats models.ProcessingStats, tol models.ToleranceConfig, logger *slog.Logger) {
	history, err := common.OpenHistory(cfg)
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		return
	}
	if history == nil {
		return
	}
	defer history.Close()

	err = history.RecordRun(ctx, db.Run{
		RunID:            stats.RunID,
		Fingerprint:      doc.Fingerprint,
		DocumentType:     string(doc.Classification.DocumentType),
		Confidence:       doc.Classification.Confidence,
		StartedAt:        stats.StartedAt,
		Elapsed:          stats.Elapsed,
		TotalClients:     stats.TotalClients,
		ProcessedClients: stats.ProcessedClients,
		FoundClients:     stats.FoundClients,
		Anomalies:        stats.Anomalies,
		Cancelled:        stats.Cancelled,
		MinimumScore:     tol.MinimumScore,
	})
	if err != nil {
		logger.Warn("failed to record run", "error", err, "run_id", stats.RunID)
	}
}
