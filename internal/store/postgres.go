package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/mineworks/paperminer/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool. Postgres serializes
// concurrent access itself, so no extra guard is needed here.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	filename    TEXT NOT NULL DEFAULT '',
	pdf_path    TEXT NOT NULL DEFAULT '',
	source_text TEXT NOT NULL DEFAULT '',
	source_url  TEXT NOT NULL DEFAULT '',
	fields      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec *model.AnalysisRecord) error {
	if rec.ID == "" {
		return eris.New("postgres: record id is empty")
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal fields")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO records (id, mode, title, filename, pdf_path, source_text, source_url, fields, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, string(rec.Mode), rec.Title, rec.Filename, rec.PDFPath,
		rec.SourceText, rec.SourceURL, string(fieldsJSON), rec.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert record %s", rec.ID)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, mode, title, filename, pdf_path, source_text, source_url, fields, created_at
		 FROM records WHERE id = $1`,
		id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get record %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.AnalysisRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, mode, title, filename, pdf_path, source_text, source_url, fields, created_at
		 FROM records ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var recs []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		recs = append(recs, *rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list records iterate")
}
