package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DocumentInfo summarizes a cached document.
type DocumentInfo struct {
	Fingerprint string
	PageCount   int
	CreatedAt   time.Time
}

// InsertDocument stores the pages of a document unless the fingerprint is
// already present. Returns true when this call wrote the rows.
func (db *DB) InsertDocument(ctx context.Context, fingerprint string, pages []string) (bool, error) {
	inserted := false
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO documents (fingerprint, page_count)
			VALUES (?, ?)
			ON CONFLICT(fingerprint) DO NOTHING
		`, fingerprint, len(pages))
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check insert: %w", err)
		}
		if n == 0 {
			return nil // first writer wins
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO pages (fingerprint, page_number, content)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare page insert: %w", err)
		}
		defer stmt.Close()

		for i, content := range pages {
			if _, err := stmt.ExecContext(ctx, fingerprint, i+1, content); err != nil {
				return fmt.Errorf("failed to insert page %d: %w", i+1, err)
			}
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// GetDocument returns the pages of a cached document in order.
func (db *DB) GetDocument(ctx context.Context, fingerprint string) ([]string, time.Time, bool, error) {
	var pageCount int
	var createdAt time.Time
	err := db.QueryRowContext(ctx,
		"SELECT page_count, created_at FROM documents WHERE fingerprint = ?", fingerprint,
	).Scan(&pageCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to query document: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT content FROM pages WHERE fingerprint = ? ORDER BY page_number", fingerprint)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	pages := make([]string, 0, pageCount)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, time.Time{}, false, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, content)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read pages: %w", err)
	}
	if len(pages) != pageCount {
		return nil, time.Time{}, false, fmt.Errorf("document %s has %d of %d pages", fingerprint, len(pages), pageCount)
	}

	return pages, createdAt, true, nil
}

// DeleteDocument removes a document and its pages.
func (db *DB) DeleteDocument(ctx context.Context, fingerprint string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM documents WHERE fingerprint = ?", fingerprint); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// ClearDocuments removes every cached document.
func (db *DB) ClearDocuments(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}

// ListDocuments returns cached documents, newest first.
func (db *DB) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT fingerprint, page_count, created_at FROM documents ORDER BY created_at DESC, fingerprint")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.Fingerprint, &d.PageCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
