package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/qgc-crawler/internal/common"
	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/caching"
	dbpkg "github.com/dtnitsch/qgc-crawler/pkg/db"
	"github.com/dtnitsch/qgc-crawler/pkg/fetcher"
)

// ClearAction removes one cached document (--fingerprint or --document) or
// the whole cache.
func ClearAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(logger, "invalid configuration", err)
	}

	fingerprint := c.String("fingerprint")
	if path := c.String("document"); path != "" {
		data, err := fetcher.NewFetcher().Load(c.Context, path)
		if err != nil {
			return common.Fail(logger, "failed to load document", err)
		}
		fingerprint = caching.Fingerprint(data)
	}

	engine, closer, err := common.OpenEngine(cfg, logger)
	if err != nil {
		return common.Fail(logger, "failed to open cache", err)
	}
	defer closer.Close()

	if fingerprint != "" {
		if err := engine.ClearCache(c.Context, fingerprint); err != nil {
			return common.Fail(logger, "failed to clear cache entry", err)
		}
		logger.Info("cache entry cleared", "fingerprint", fingerprint)
		return nil
	}

	if err := engine.ClearAllCache(c.Context); err != nil {
		return common.Fail(logger, "failed to clear cache", err)
	}
	logger.Info("cache cleared", "backend", cfg.Cache.Backend)
	return nil
}

// ListAction prints the documents held by the sqlite cache.
func ListAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(logger, "invalid configuration", err)
	}
	if cfg.Cache.Backend != models.CacheSQLite {
		return common.Fail(logger, "cache list needs the sqlite backend",
			models.ConfigurationError("backend %q cannot be listed", cfg.Cache.Backend))
	}

	database, err := dbpkg.Open(cfg.Cache.Path)
	if err != nil {
		return common.Fail(logger, "failed to open database", err)
	}
	defer database.Close()

	docs, err := database.ListDocuments(c.Context)
	if err != nil {
		return common.Fail(logger, "failed to list documents", err)
	}
	if len(docs) == 0 {
		fmt.Println("No cached documents")
		return nil
	}

	fmt.Printf("%-64s %-6s %-20s\n", "Fingerprint", "Pages", "Cached")
	fmt.Println(strings.Repeat("-", 92))
	for _, d := range docs {
		fmt.Printf("%-64s %-6d %-20s\n", d.Fingerprint, d.PageCount, d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

// RunsAction prints the most recent matching runs.
func RunsAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(logger, "invalid configuration", err)
	}

	database, err := common.OpenHistory(cfg)
	if err != nil {
		return common.Fail(logger, "failed to open database", err)
	}
	if database == nil {
		fmt.Println("The memory backend keeps no run history")
		return nil
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return common.Fail(logger, "failed to list runs", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-36s %-20s %-8s %-6s %-9s %-7s %-6s %-9s\n",
		"Run", "Started", "Type", "Conf", "Clients", "Found", "Min", "Elapsed")
	fmt.Println(strings.Repeat("-", 110))
	for _, r := range runs {
		clients := fmt.Sprintf("%d/%d", r.ProcessedClients, r.TotalClients)
		if r.Cancelled {
			clients += "*"
		}
		fmt.Printf("%-36s %-20s %-8s %-6d %-9s %-7d %-6d %-9s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.DocumentType,
			r.Confidence,
			clients,
			r.FoundClients,
			r.MinimumScore,
			r.Elapsed.Round(time.Millisecond),
		)
	}
	fmt.Printf("\nTotal: %d runs (* cancelled)\n", len(runs))
	return nil
}
