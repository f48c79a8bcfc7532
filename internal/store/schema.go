package store

import "database/sql"

const ddl = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS reports (
    id         TEXT PRIMARY KEY,
    source     TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    file_count INTEGER NOT NULL DEFAULT 0,
    score      INTEGER,
    summary    TEXT NOT NULL,
    analysis   TEXT,
    patches    TEXT,
    docs       TEXT,
    failures   TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS reports_created_at ON reports(created_at DESC);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Init creates the schema tables if they don't exist.
func Init(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}
