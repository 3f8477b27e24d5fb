package order

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	o := testOrder("ORD-AAA111BBB", 42, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.Put(ctx, o))

	got, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Status, got.Status)
	assert.True(t, o.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, store.Delete(ctx, o.ID))

	_, err = store.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store := setupRedisStore(t)

	_, err := store.Get(context.Background(), "ORD-NOPE00000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ListByRequester(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Put(ctx, testOrder("ORD-B00000000", 1, base.Add(time.Minute))))
	require.NoError(t, store.Put(ctx, testOrder("ORD-A00000000", 1, base)))
	require.NoError(t, store.Put(ctx, testOrder("ORD-C00000000", 2, base)))

	mine, err := store.ListByRequester(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "ORD-A00000000", mine[0].ID)
	assert.Equal(t, "ORD-B00000000", mine[1].ID)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
