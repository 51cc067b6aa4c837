package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/brand-audit/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository runs the behaviour every report.Repository backend must share.
// repo must start empty.
func testRepository(t *testing.T, repo report.Repository) {
	t.Helper()

	ctx := context.Background()
	run := uuid.NewString()[:8]
	id := func(name string) report.ShortID { return report.ShortID(run + "-" + name) }
	now := time.Now().UTC().Truncate(time.Microsecond)

	newReport := func(name string, expiresAt time.Time) *report.SharedReport {
		return &report.SharedReport{
			ShortID:        id(name),
			AuditResult:    json.RawMessage(`{"score": 87, "issues": ["contrast"]}`),
			LighthouseData: json.RawMessage(`{"performance": 0.91}`),
			Website:        "https://example.com",
			CreatedAt:      expiresAt.Add(-30 * 24 * time.Hour),
			ExpiresAt:      expiresAt,
		}
	}

	t.Run("insert and get round trip", func(t *testing.T) {
		want := newReport("roundtrip", now.Add(time.Hour))
		require.NoError(t, repo.Insert(ctx, want))

		got, err := repo.Get(ctx, want.ShortID)

		require.NoError(t, err)
		assert.Equal(t, want.ShortID, got.ShortID)
		assert.JSONEq(t, string(want.AuditResult), string(got.AuditResult))
		assert.JSONEq(t, string(want.LighthouseData), string(got.LighthouseData))
		assert.Equal(t, want.Website, got.Website)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", want.CreatedAt, got.CreatedAt)
		assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt), "expires_at %s != %s", want.ExpiresAt, got.ExpiresAt)
	})

	t.Run("lighthouse data is optional", func(t *testing.T) {
		want := newReport("nolighthouse", now.Add(time.Hour))
		want.LighthouseData = nil
		require.NoError(t, repo.Insert(ctx, want))

		got, err := repo.Get(ctx, want.ShortID)

		require.NoError(t, err)
		assert.Empty(t, got.LighthouseData)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		first := newReport("dup", now.Add(time.Hour))
		require.NoError(t, repo.Insert(ctx, first))

		second := newReport("dup", now.Add(2*time.Hour))
		second.Website = "https://other.example.com"

		err := repo.Insert(ctx, second)

		require.ErrorIs(t, err, report.ErrDuplicateID)

		got, err := repo.Get(ctx, first.ShortID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.Website, "the first row must be kept")
	})

	t.Run("exists", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, newReport("exists", now.Add(time.Hour))))

		ok, err := repo.Exists(ctx, id("exists"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, id("missing"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := repo.Get(ctx, id("missing"))

		assert.ErrorIs(t, err, report.ErrNotFound)
	})

	t.Run("sweep and stats", func(t *testing.T) {
		before, err := repo.Stats(ctx, now)
		require.NoError(t, err)

		for _, name := range []string{"old1", "old2", "old3"} {
			require.NoError(t, repo.Insert(ctx, newReport(name, now.Add(-time.Minute))))
		}

		require.NoError(t, repo.Insert(ctx, newReport("boundary", now)))
		require.NoError(t, repo.Insert(ctx, newReport("new1", now.Add(time.Hour))))

		stats, err := repo.Stats(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, before.Total+5, stats.Total)
		assert.Equal(t, before.Active+2, stats.Active, "a report expiring exactly now is still active")
		assert.Equal(t, before.Expired+3, stats.Expired)

		deleted, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, before.Expired+3, deleted)

		deleted, err = repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, deleted, "sweeping twice deletes nothing more")

		for _, name := range []string{"old1", "old2", "old3"} {
			ok, err := repo.Exists(ctx, id(name))
			require.NoError(t, err)
			assert.False(t, ok, name)
		}

		ok, err := repo.Exists(ctx, id("boundary"))
		require.NoError(t, err)
		assert.True(t, ok)

		stats, err = repo.Stats(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, stats.Expired)
		assert.Equal(t, stats.Active, stats.Total)
	})
}
