package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smolquery/internal/db"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	pool, err := db.Open(filepath.Join(t.TempDir(), "meta.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	require.NoError(t, db.RunMigrations(pool))

	return NewRepo(pool)
}

func TestRepo_InsertAndList(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	errMsg := "boom"
	entries := []*Entry{
		{QueryID: "q1", SQL: "SELECT 1", Status: "completed", JobID: "local-q1", DurationMs: 12},
		{QueryID: "q2", SQL: "SELECT 2", Status: "failed", Error: &errMsg, DurationMs: 5},
	}
	for _, e := range entries {
		require.NoError(t, repo.Insert(ctx, e))
		assert.NotZero(t, e.ID)
	}

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "q2", got[0].QueryID)
	require.NotNil(t, got[0].Error)
	assert.Equal(t, "boom", *got[0].Error)
	assert.Equal(t, "q1", got[1].QueryID)
	assert.Nil(t, got[1].Error)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestRepo_ListLimit(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &Entry{QueryID: "q", SQL: "SELECT 1", Status: "completed"}))
	}

	got, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRepo_DeleteOlderThan(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &Entry{QueryID: "q1", SQL: "SELECT 1", Status: "completed"}))

	// A cutoff in the past removes nothing.
	n, err := repo.DeleteOlderThan(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	// A cutoff in the future removes the entry.
	n, err = repo.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
