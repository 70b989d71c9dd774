package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dsn string) *Store {
	t.Helper()
	store, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCurrent_EmptyStore(t *testing.T) {
	store := openStore(t, ":memory:")

	_, ok, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet_ReplacesAndClears(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, ":memory:")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return fixed }

	require.NoError(t, store.Set(ctx, Session{Token: "t1", Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, store.Set(ctx, Session{Token: "t2", Username: "bob", Email: "bob@example.com"}))

	sess, ok, err := store.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t2", sess.Token)
	assert.Equal(t, "bob", sess.Username)
	assert.True(t, sess.SavedAt.Equal(fixed))

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet_RequiresToken(t *testing.T) {
	store := openStore(t, ":memory:")
	assert.Error(t, store.Set(context.Background(), Session{Username: "alice"}))
}

func TestSession_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, Session{Token: "persisted", Username: "alice", Email: "a@example.com"}))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	sess, ok, err := second.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", sess.Token)
}
