package session_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/askaris/askaris/internal/session"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*session.Store, *miniredis.Miniredis, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	// Create test logger
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	store := session.NewStore(client, logger)

	cleanup := func() {
		mr.Close()
		client.Close()
		logger.Sync()
	}

	return store, mr, cleanup
}

func TestCreateAndLookup(t *testing.T) {
	t.Parallel()
	store, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestLookupUnknownToken(t *testing.T) {
	t.Parallel()
	store, _, cleanup := setupTest(t)
	defer cleanup()

	_, err := store.Lookup(t.Context(), "not-a-token")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestLookupExpiredToken(t *testing.T) {
	t.Parallel()
	store, mr, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)

	// Advance past the session TTL.
	mr.FastForward(session.TTL + 1)

	_, err = store.Lookup(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	store, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, token))

	_, err = store.Lookup(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, token))
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()
	store, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	first, err := store.Create(ctx, 1)
	require.NoError(t, err)

	second, err := store.Create(ctx, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
