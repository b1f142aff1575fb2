// Package models defines the data structures shared by the crawler packages.
package models

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMinimumScore  = 80
	MinimumScoreFloor    = 50
	RecommendedScoreLow  = 80
	RecommendedScoreHigh = 85
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheSQLite = "sqlite"
)

// ToleranceConfig controls match acceptance for one MatchClients run.
type ToleranceConfig struct {
	MinimumScore   int  `yaml:"minimum_score" json:"minimum_score"`
	ShortNameBoost bool `yaml:"short_name_boost" json:"short_name_boost"`
	SectionScoping bool `yaml:"section_scoping" json:"section_scoping"`
}

// DefaultTolerance returns the recommended tolerance settings.
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		MinimumScore:   DefaultMinimumScore,
		ShortNameBoost: true,
	}
}

// Validate rejects scores outside [MinimumScoreFloor, 100].
func (t ToleranceConfig) Validate() error {
	if t.MinimumScore < MinimumScoreFloor || t.MinimumScore > 100 {
		return ConfigurationError("minimum_score %d out of range [%d, 100]", t.MinimumScore, MinimumScoreFloor)
	}
	return nil
}

// Recommended reports whether the minimum score lies in the operator range.
func (t ToleranceConfig) Recommended() bool {
	return t.MinimumScore >= RecommendedScoreLow && t.MinimumScore <= RecommendedScoreHigh
}

type CacheConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type ClassifierConfig struct {
	HeaderPages   int  `yaml:"header_pages"`
	MinConfidence int  `yaml:"min_confidence"`
	LanguageCheck bool `yaml:"language_check"`
}

// Config is the file-level configuration. CLI flags override loaded values.
type Config struct {
	Tolerance  ToleranceConfig  `yaml:"tolerance"`
	Cache      CacheConfig      `yaml:"cache"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Workers    int              `yaml:"workers"`
	BatchSize  int              `yaml:"batch_size"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Tolerance: DefaultTolerance(),
		Cache: CacheConfig{
			Backend: CacheFile,
			Path:    ".qgc-cache",
		},
		Classifier: ClassifierConfig{
			HeaderPages:   5,
			MinConfidence: 40,
		},
		Workers:   runtime.NumCPU(),
		BatchSize: 50,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, NewAppError(CodeConfiguration, "read config", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, NewAppError(CodeConfiguration, fmt.Sprintf("parse %s", path), err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Tolerance.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheFile, CacheSQLite:
		if c.Cache.Path == "" {
			return ConfigurationError("cache.path required for %s backend", c.Cache.Backend)
		}
	default:
		return ConfigurationError("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Classifier.HeaderPages < 1 {
		return ConfigurationError("classifier.header_pages must be positive")
	}
	if c.Classifier.MinConfidence < 0 || c.Classifier.MinConfidence > 100 {
		return ConfigurationError("classifier.min_confidence %d out of range", c.Classifier.MinConfidence)
	}
	if c.Workers < 1 {
		return ConfigurationError("workers must be positive")
	}
	if c.BatchSize < 1 {
		return ConfigurationError("batch_size must be positive")
	}
	return nil
}
