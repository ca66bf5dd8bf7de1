package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/mineworks/paperminer/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. All operations are
// serialized under an internal mutex; the guard is held for the duration of
// each store call and never across external network calls.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	filename    TEXT NOT NULL DEFAULT '',
	pdf_path    TEXT NOT NULL DEFAULT '',
	source_text TEXT NOT NULL DEFAULT '',
	source_url  TEXT NOT NULL DEFAULT '',
	fields      TEXT NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, rec *model.AnalysisRecord) error {
	if rec.ID == "" {
		return eris.New("sqlite: record id is empty")
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal fields")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, mode, title, filename, pdf_path, source_text, source_url, fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Mode), rec.Title, rec.Filename, rec.PDFPath,
		rec.SourceText, rec.SourceURL, string(fieldsJSON), rec.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert record %s", rec.ID)
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, title, filename, pdf_path, source_text, source_url, fields, created_at
		 FROM records WHERE id = ?`,
		id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, title, filename, pdf_path, source_text, source_url, fields, created_at
		 FROM records ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var recs []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		recs = append(recs, *rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	var mode, fieldsJSON string

	err := row.Scan(&rec.ID, &mode, &rec.Title, &rec.Filename, &rec.PDFPath,
		&rec.SourceText, &rec.SourceURL, &fieldsJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Mode = model.Mode(mode)

	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, eris.Wrap(err, "unmarshal fields")
	}
	return &rec, nil
}
