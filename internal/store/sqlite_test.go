package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineworks/paperminer/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func legalRecord(id string) *model.AnalysisRecord {
	return &model.AnalysisRecord{
		ID:         id,
		Mode:       model.ModeLegalDocument,
		SourceText: "the agreement text",
		Fields: map[string]string{
			"benefits":     "30-day trial",
			"traps":        "auto-renewal",
			"advisability": "Maybe",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLite_InsertAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := legalRecord("rec-1")
	require.NoError(t, st.Insert(ctx, rec))

	fetched, err := st.Get(ctx, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, model.ModeLegalDocument, fetched.Mode)
	assert.Equal(t, "the agreement text", fetched.SourceText)
	assert.Equal(t, "auto-renewal", fetched.Fields["traps"])
}

func TestSQLite_Get_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	fetched, err := st.Get(context.Background(), "never-inserted")
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestSQLite_Insert_DuplicateID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Insert(ctx, legalRecord("dup")))
	assert.Error(t, st.Insert(ctx, legalRecord("dup")))
}

func TestSQLite_Insert_EmptyID(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.Error(t, st.Insert(context.Background(), legalRecord("")))
}

func TestSQLite_List_InsertionOrder(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		rec := legalRecord(fmt.Sprintf("rec-%d", i))
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, st.Insert(ctx, rec))
	}

	recs, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "rec-0", recs[0].ID)
	assert.Equal(t, "rec-2", recs[2].ID)
}

func TestSQLite_List_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	recs, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLite_ConcurrentInserts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.Insert(ctx, legalRecord(fmt.Sprintf("conc-%d", i)))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "insert %d", i)
	}

	// Every insert is independently retrievable afterward.
	recs, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, n)
	for i := 0; i < n; i++ {
		fetched, err := st.Get(ctx, fmt.Sprintf("conc-%d", i))
		require.NoError(t, err)
		require.NotNil(t, fetched)
	}
}

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}
