package store_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/serroba/brand-audit/internal/report"
	"github.com/serroba/brand-audit/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, path string) *store.SQLiteStore {
	t.Helper()

	s, err := store.OpenSQLite(context.Background(), path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Shutdown() })

	return s
}

func TestSQLiteStore(t *testing.T) {
	testRepository(t, openSQLite(t, filepath.Join(t.TempDir(), "reports.db")))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reports.db")

	first, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)

	require.NoError(t, first.Insert(ctx, &report.SharedReport{
		ShortID:     "aB3xY9",
		AuditResult: json.RawMessage(`{"score":1}`),
		Website:     "https://example.com",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	require.NoError(t, first.Shutdown())

	second := openSQLite(t, path)

	got, err := second.Get(ctx, "aB3xY9")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.Website)
	assert.NoError(t, second.Ping(ctx))
}
