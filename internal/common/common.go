package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/caching"
	"github.com/dtnitsch/qgc-crawler/pkg/crawler"
	"github.com/dtnitsch/qgc-crawler/pkg/db"
	"github.com/dtnitsch/qgc-crawler/pkg/detector"
)

// Exit codes.
const (
	ExitConfig  = 1
	ExitRuntime = 2
)

// NewLogger builds the JSON stderr logger from --quiet and --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	switch {
	case c.Bool("quiet"):
		logLevel = slog.LevelError
	case c.Bool("verbose"):
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config and applies the flags shared by every command.
func LoadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("cache-backend") {
		cfg.Cache.Backend = c.String("cache-backend")
	}
	if c.IsSet("cache-dir") {
		cfg.Cache.Path = c.String("cache-dir")
	}
	return cfg, cfg.Validate()
}

// OpenEngine builds a crawler over the configured cache. The closer releases
// the cache backend.
func OpenEngine(cfg models.Config, logger *slog.Logger) (*crawler.Engine, io.Closer, error) {
	store, closer, err := caching.Open(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	var lang detector.LanguageDetector
	if cfg.Classifier.LanguageCheck {
		lang = detector.NewLinguaDetector()
	}
	engine := crawler.New(store, detector.New(cfg.Classifier, lang), crawler.Options{
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
		Logger:    logger,
	})
	return engine, closer, nil
}

// OpenHistory opens the run history database kept beside the cache. The
// memory backend has no history and returns nil.
func OpenHistory(cfg models.Config) (*db.DB, error) {
	if cfg.Cache.Backend == models.CacheMemory {
		return nil, nil
	}
	if cfg.Cache.Backend == models.CacheFile {
		if err := os.MkdirAll(cfg.Cache.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return db.Open(cfg.Cache.Path)
}

// Fail logs err and converts it into the process exit code.
func Fail(logger *slog.Logger, msg string, err error) error {
	logger.Error(msg, "error", err)
	if errors.Is(err, models.ErrConfiguration) {
		return cli.Exit("", ExitConfig)
	}
	return cli.Exit("", ExitRuntime)
}

// PrintJSON writes v to stdout as indented JSON, keeping only the
// comma-separated top-level fields when fieldsStr is set.
func PrintJSON(v any, fieldsStr string) error {
	var out any = v
	if fieldsStr != "" {
		out = FilterFields(v, fieldsStr)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// FilterFields keeps the requested top-level JSON fields of v.
func FilterFields(v any, fieldsStr string) map[string]any {
	fullMap := structToMap(v)
	if fieldsStr == "" {
		return fullMap
	}

	includeFields := make(map[string]bool)
	for _, field := range strings.Split(fieldsStr, ",") {
		includeFields[strings.TrimSpace(field)] = true
	}

	filtered := make(map[string]any)
	for key, value := range fullMap {
		if includeFields[key] {
			filtered[key] = value
		}
	}
	return filtered
}

// structToMap converts a struct to map[string]any using JSON marshaling.
func structToMap(obj any) map[string]any {
	data, _ := json.Marshal(obj)
	var result map[string]any
	_ = json.Unmarshal(data, &result)
	return result
}
