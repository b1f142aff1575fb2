package caching

import (
	"context"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/db"
)

// SQLiteStore keeps entries in the documents and pages tables.
type SQLiteStore struct {
	db *db.DB
}

func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

func (s *SQLiteStore) Get(ctx context.Context, fingerprint string) (Entry, bool, error) {
	pages, createdAt, found, err := s.db.GetDocument(ctx, fingerprint)
	if err != nil {
		return Entry{}, false, models.CacheIOError("read cache entry", err)
	}
	if !found {
		return Entry{}, false, nil
	}
	return Entry{Pages: pages, CreatedAt: createdAt}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, fingerprint string, e Entry) error {
	if _, err := s.db.InsertDocument(ctx, fingerprint, e.Pages); err != nil {
		return models.CacheIOError("write cache entry", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, fingerprint string) error {
	if err := s.db.DeleteDocument(ctx, fingerprint); err != nil {
		return models.CacheIOError("delete cache entry", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.db.ClearDocuments(ctx); err != nil {
		return models.CacheIOError("clear cache", err)
	}
	return nil
}
