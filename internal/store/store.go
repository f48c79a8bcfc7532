// Package store persists finished pipeline reports in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no report matches an id.
var ErrNotFound = errors.New("report not found")

// Store provides persistence for reports and small metadata values.
type Store interface {
	// Save inserts or replaces a report. An empty ID is assigned a new UUID
	// and a zero CreatedAt is set to now.
	Save(r *Report) error
	// Get returns the report whose id equals or uniquely starts with id.
	Get(id string) (*Report, error)
	// List returns the newest reports first. limit <= 0 means no limit.
	List(limit int) ([]ReportInfo, error)
	// Delete removes a report by exact id.
	Delete(id string) error
	// GetMeta returns a metadata value by key, or "" if not set.
	GetMeta(key string) (string, error)
	// SetMeta sets a metadata key-value pair.
	SetMeta(key, value string) error
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(r *Report) error {
	if r.Summary == nil {
		return errors.New("report has no summary")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	summary, err := json.Marshal(r.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	analysis, err := marshalOptional(r.Analysis != nil, r.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	patches, err := marshalOptional(r.Patches != nil, r.Patches)
	if err != nil {
		return fmt.Errorf("marshal patches: %w", err)
	}
	docs, err := marshalOptional(r.Docs != nil, r.Docs)
	if err != nil {
		return fmt.Errorf("marshal docs: %w", err)
	}
	failures, err := json.Marshal(r.Failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}
	if r.Failures == nil {
		failures = []byte("{}")
	}

	var score sql.NullInt64
	if r.Analysis != nil {
		score = sql.NullInt64{Int64: int64(r.Analysis.Score), Valid: true}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO reports
		(id, source, created_at, file_count, score, summary, analysis, patches, docs, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Source, r.CreatedAt, r.Summary.FileCount, score,
		string(summary), analysis, patches, docs, string(failures),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func marshalOptional(present bool, v any) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func (s *SQLiteStore) Get(id string) (*Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.Query(`SELECT id, source, created_at, summary, analysis, patches, docs, failures
		FROM reports WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, escapeLike(id)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []*Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		if r.ID == id {
			return r, nil
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("report id %q is ambiguous", id)
	}
}

func scanReport(rows *sql.Rows) (*Report, error) {
	var (
		r                       Report
		summary, failures       string
		analysis, patches, docs sql.NullString
	)
	if err := rows.Scan(&r.ID, &r.Source, &r.CreatedAt, &summary, &analysis, &patches, &docs, &failures); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(summary), &r.Summary); err != nil {
		return nil, fmt.Errorf("decode summary of %s: %w", r.ID, err)
	}
	if analysis.Valid {
		if err := json.Unmarshal([]byte(analysis.String), &r.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis of %s: %w", r.ID, err)
		}
	}
	if patches.Valid {
		if err := json.Unmarshal([]byte(patches.String), &r.Patches); err != nil {
			return nil, fmt.Errorf("decode patches of %s: %w", r.ID, err)
		}
	}
	if docs.Valid {
		if err := json.Unmarshal([]byte(docs.String), &r.Docs); err != nil {
			return nil, fmt.Errorf("decode docs of %s: %w", r.ID, err)
		}
	}
	if err := json.Unmarshal([]byte(failures), &r.Failures); err != nil {
		return nil, fmt.Errorf("decode failures of %s: %w", r.ID, err)
	}
	if len(r.Failures) == 0 {
		r.Failures = nil
	}
	return &r, nil
}

func (s *SQLiteStore) List(limit int) ([]ReportInfo, error) {
	query := "SELECT id, source, created_at, file_count, score FROM reports ORDER BY created_at DESC, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportInfo
	for rows.Next() {
		var (
			info  ReportInfo
			score sql.NullInt64
		)
		if err := rows.Scan(&info.ID, &info.Source, &info.CreatedAt, &info.FileCount, &score); err != nil {
			return nil, err
		}
		info.Score = -1
		if score.Valid {
			info.Score = int(score.Int64)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
