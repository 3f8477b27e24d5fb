package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordbyte/orderbot/internal/order"
)

type stubRepository struct {
	records map[string]*Record
	finds   int
	saves   int
}

func newStubRepository() *stubRepository {
	return &stubRepository{records: make(map[string]*Record)}
}

func (s *stubRepository) Save(_ context.Context, rec *Record) error {
	s.saves++
	s.records[rec.ID] = rec
	return nil
}

func (s *stubRepository) Find(_ context.Context, id string) (*Record, error) {
	s.finds++
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func sampleRecord(id string) *Record {
	return &Record{
		ID:            id,
		GameName:      "Hades",
		SteamName:     "zagreus",
		RawPrice:      "20.99 EUR",
		PaymentMethod: "Swish",
		RequesterID:   42,
		RequesterName: "tester",
		Status:        "payment_pending",
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
		ArchivedAt:    time.Now().UTC(),
	}
}

func TestCachedRepository_FindServesFromCacheAfterSave(t *testing.T) {
	stub := newStubRepository()
	repo, err := NewCachedRepository(stub, 8)
	require.NoError(t, err)
	ctx := context.Background()

	rec := sampleRecord("ORD-AAA111BBB")
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Zero(t, stub.finds)
}

func TestCachedRepository_FindFallsThroughAndCaches(t *testing.T) {
	stub := newStubRepository()
	rec := sampleRecord("ORD-AAA111BBB")
	stub.records[rec.ID] = rec

	repo, err := NewCachedRepository(stub, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Find(ctx, rec.ID)
	require.NoError(t, err)
	_, err = repo.Find(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.finds)
}

func TestCachedRepository_FindMissing(t *testing.T) {
	repo, err := NewCachedRepository(newStubRepository(), 8)
	require.NoError(t, err)

	_, err = repo.Find(context.Background(), "ORD-NOPE00000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFromOrder_CopiesFields(t *testing.T) {
	created := time.Now().UTC().Add(-time.Hour)
	archivedAt := time.Now()

	o := &order.Order{
		ID:            "ORD-AAA111BBB",
		GameName:      "Hades",
		SteamName:     "zagreus",
		RawPrice:      "20.99 EUR",
		PaymentMethod: order.MethodSwish,
		RequesterID:   42,
		RequesterName: "tester",
		Status:        order.StatusPaymentPending,
		ThreadRef:     "100:200",
		CreatedAt:     created,
	}

	rec := FromOrder(o, archivedAt)
	require.NotNil(t, rec)
	assert.Equal(t, o.ID, rec.ID)
	assert.Equal(t, string(o.PaymentMethod), rec.PaymentMethod)
	assert.Equal(t, string(o.Status), rec.Status)
	assert.Equal(t, o.ThreadRef, rec.ThreadRef)
	assert.True(t, rec.CreatedAt.Equal(created))
	assert.True(t, rec.ArchivedAt.Equal(archivedAt.UTC()))

	assert.Nil(t, FromOrder(nil, archivedAt))
}
