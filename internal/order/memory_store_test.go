package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(id string, requesterID int64, created time.Time) *Order {
	return &Order{
		ID:            id,
		GameName:      "Hades",
		SteamName:     "zagreus",
		RawPrice:      "20.99 EUR",
		PaymentMethod: MethodSwish,
		RequesterID:   requesterID,
		RequesterName: "tester",
		Status:        StatusPending,
		CreatedAt:     created,
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	o := testOrder("ORD-AAA111BBB", 42, time.Now().UTC())
	require.NoError(t, store.Put(ctx, o))

	got, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	// Mutating the returned copy must not affect the stored record.
	got.Status = StatusConfirmed
	again, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "ORD-NOPE00000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteAbsentIsNoError(t *testing.T) {
	store := NewMemoryStore()

	assert.NoError(t, store.Delete(context.Background(), "ORD-NOPE00000"))
}

func TestMemoryStore_ListByRequester(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

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
