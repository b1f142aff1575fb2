package caching

import (
	"io"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/db"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the store named by cfg. The closer releases the backend.
func Open(cfg models.CacheConfig) (Store, io.Closer, error) {
	switch cfg.Backend {
	case models.CacheMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case models.CacheFile:
		store, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case models.CacheSQLite:
		database, err := db.Open(cfg.Path)
		if err != nil {
			return nil, nil, models.CacheIOError("open cache database", err)
		}
		return NewSQLiteStore(database), database, nil
	default:
		return nil, nil, models.ConfigurationError("unknown cache backend %q", cfg.Backend)
	}
}
