package db

import (
	"context"
	"reflect"
	"testing"
	"time"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every pooled connection would get its own empty :memory: database
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestInsertDocument(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tests := []struct {
		name         string
		fingerprint  string
		pages        []string
		wantInserted bool
		wantPages    []string
	}{
		{
			name:         "new document",
			fingerprint:  "aaa",
			pages:        []string{"page one", "page two"},
			wantInserted: true,
			wantPages:    []string{"page one", "page two"},
		},
		{
			name:         "second writer is a no-op",
			fingerprint:  "aaa",
			pages:        []string{"different"},
			wantInserted: false,
			wantPages:    []string{"page one", "page two"},
		},
		{
			name:         "empty page kept",
			fingerprint:  "bbb",
			pages:        []string{"", "text"},
			wantInserted: true,
			wantPages:    []string{"", "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inserted, err := db.InsertDocument(ctx, tt.fingerprint, tt.pages)
			if err != nil {
				t.Fatalf("InsertDocument() error = %v", err)
			}
			if inserted != tt.wantInserted {
				t.Errorf("InsertDocument() inserted = %v, want %v", inserted, tt.wantInserted)
			}

			pages, _, found, err := db.GetDocument(ctx, tt.fingerprint)
			if err != nil {
				t.Fatalf("GetDocument() error = %v", err)
			}
			if !found {
				t.Fatal("GetDocument() found = false")
			}
			if !reflect.DeepEqual(pages, tt.wantPages) {
				t.Errorf("GetDocument() pages = %q, want %q", pages, tt.wantPages)
			}
		})
	}
}

func TestGetDocumentMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pages, _, found, err := db.GetDocument(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if found || pages != nil {
		t.Errorf("GetDocument() = %v, %v; want miss", pages, found)
	}
}

func TestDeleteAndClearDocuments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	for _, fp := range []string{"one", "two", "three"} {
		if _, err := db.InsertDocument(ctx, fp, []string{fp}); err != nil {
			t.Fatalf("InsertDocument(%s) error = %v", fp, err)
		}
	}

	if err := db.DeleteDocument(ctx, "two"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	docs, err := db.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("ListDocuments() = %d docs, want 2", len(docs))
	}

	var pageRows int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages WHERE fingerprint = 'two'").Scan(&pageRows); err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if pageRows != 0 {
		t.Errorf("pages of deleted document = %d, want 0 (cascade)", pageRows)
	}

	if err := db.ClearDocuments(ctx); err != nil {
		t.Fatalf("ClearDocuments() error = %v", err)
	}
	docs, err = db.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("ListDocuments() after clear = %d docs, want 0", len(docs))
	}
}

func TestRecordRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{RunID: "r1", Fingerprint: "aaa", DocumentType: "qgc", Confidence: 90, StartedAt: base,
			Elapsed: 1500 * time.Millisecond, TotalClients: 10, ProcessedClients: 10, FoundClients: 7, MinimumScore: 80},
		{RunID: "r2", Fingerprint: "aaa", DocumentType: "qgc", Confidence: 90, StartedAt: base.Add(time.Hour),
			Elapsed: time.Second, TotalClients: 10, ProcessedClients: 4, FoundClients: 2, Cancelled: true, MinimumScore: 85},
	}
	for _, r := range runs {
		if err := db.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun(%s) error = %v", r.RunID, err)
		}
	}

	got, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRuns() = %d runs, want 2", len(got))
	}
	if got[0].RunID != "r2" {
		t.Errorf("ListRuns()[0] = %s, want newest run r2", got[0].RunID)
	}
	if !got[0].Cancelled || got[0].ProcessedClients != 4 || got[0].MinimumScore != 85 {
		t.Errorf("ListRuns()[0] = %+v, fields not round-tripped", got[0])
	}
	if got[1].Elapsed != 1500*time.Millisecond {
		t.Errorf("ListRuns()[1].Elapsed = %v, want 1.5s", got[1].Elapsed)
	}

	limited, err := db.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListRuns(1) = %d runs, want 1", len(limited))
	}

	if err := db.RecordRun(ctx, runs[0]); err == nil {
		t.Error("RecordRun() with duplicate run_id should fail")
	}
}
