package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartflow-systems/SFS-Backend/internal/session"
	"github.com/smartflow-systems/SFS-Backend/internal/session/redisstore"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

func newTestStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.New(client), mr
}

func TestStoreRoundtrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	sess, err := session.New(uuid.New(), time.Hour)
	require.NoError(t, err)
	sess.Data["locale"] = "en"

	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, "en", got.Data["locale"])
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestStoreGetAbsent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.True(t, storage.IsNotFound(err))
}

func TestStoreNativeExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, mr := newTestStore(t)

	sess, err := session.New(uuid.New(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, sess))

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, sess.Token)
	assert.True(t, storage.IsNotFound(err))
}

func TestStorePutExpiredIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	sess, err := session.New(uuid.New(), -time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, sess))

	_, err = store.Get(ctx, sess.Token)
	assert.True(t, storage.IsNotFound(err))
}

func TestStoreDeleteIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	sess, err := session.New(uuid.New(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, sess))

	require.NoError(t, store.Delete(ctx, sess.Token))
	require.NoError(t, store.Delete(ctx, sess.Token))
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, mr := newTestStore(t)

	sess, err := session.New(uuid.New(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, sess))

	// Connectivity loss must read as unavailable, never as a missing session.
	mr.Close()

	_, err = store.Get(ctx, sess.Token)
	assert.True(t, storage.IsUnavailable(err))
	assert.False(t, storage.IsNotFound(err))

	assert.True(t, storage.IsUnavailable(store.Put(ctx, sess)))
	assert.True(t, storage.IsUnavailable(store.Delete(ctx, sess.Token)))
}

func TestStoreSweepIsNoop(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	count, err := store.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
