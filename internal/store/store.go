package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/mineworks/paperminer/internal/config"
	"github.com/mineworks/paperminer/internal/model"
)

// Store defines the persistence interface for analysis records. Records are
// append-only: there is no update or delete operation.
type Store interface {
	// Insert persists a fully-assembled record. The id must be unique.
	Insert(ctx context.Context, rec *model.AnalysisRecord) error
	// Get returns the record with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*model.AnalysisRecord, error)
	// List returns all records in insertion order.
	List(ctx context.Context) ([]model.AnalysisRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
