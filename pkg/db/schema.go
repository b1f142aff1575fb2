package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Documents: one row per content fingerprint, written once
CREATE TABLE IF NOT EXISTS documents (
    fingerprint TEXT PRIMARY KEY,
    page_count INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Pages: extracted text in page order
CREATE TABLE IF NOT EXISTS pages (
    fingerprint TEXT NOT NULL,
    page_number INTEGER NOT NULL,
    content TEXT NOT NULL,
    PRIMARY KEY (fingerprint, page_number),
    FOREIGN KEY (fingerprint) REFERENCES documents(fingerprint) ON DELETE CASCADE
);

-- Runs: one row per MatchClients call
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    document_type TEXT,
    confidence INTEGER,
    started_at TIMESTAMP NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    total_clients INTEGER NOT NULL,
    processed_clients INTEGER NOT NULL,
    found_clients INTEGER NOT NULL,
    anomalies INTEGER DEFAULT 0,
    cancelled BOOLEAN DEFAULT 0,
    minimum_score INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
`
