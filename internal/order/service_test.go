package order

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(store, log, nil, nil), store
}

func sampleInput(requesterID int64) CreateInput {
	return CreateInput{
		GameName:      "Cyberpunk 2077",
		RawPrice:      "59.99",
		SteamName:     "mysteamname",
		PaymentMethod: MethodPayPal,
		RequesterID:   requesterID,
		RequesterName: "tester",
	}
}

func TestService_CreatePendingOrder(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(o.ID, "ORD-"))
	assert.Len(t, o.ID, len("ORD-")+9)
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())

	stored, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, stored)
}

func TestService_CreateGeneratesUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		o, err := svc.Create(ctx, sampleInput(42))
		require.NoError(t, err)
		assert.False(t, seen[o.ID], "duplicate id %s", o.ID)
		seen[o.ID] = true
	}
}

func TestService_ConfirmThenPay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	confirmed, err := svc.Transition(ctx, o.ID, 42, ActionConfirm)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	paid, err := svc.Transition(ctx, o.ID, 42, ActionConfirmPayment)
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentPending, paid.Status)
}

func TestService_CancelRemovesOrder(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	cancelled, err := svc.Transition(ctx, o.ID, 42, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = store.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_TransitionByNonCreatorIsForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	_, err = svc.Transition(ctx, o.ID, 99, ActionConfirm)
	assert.ErrorIs(t, err, ErrForbidden)

	// The order is untouched.
	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestService_IllegalTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	// Paying before confirmation is not legal.
	_, err = svc.Transition(ctx, o.ID, 42, ActionConfirmPayment)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(ctx, o.ID, 42, ActionConfirm)
	require.NoError(t, err)

	// Neither is confirming or cancelling a confirmed order.
	_, err = svc.Transition(ctx, o.ID, 42, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(ctx, o.ID, 42, ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_TransitionMissingOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transition(context.Background(), "ORD-NOPE00000", 42, ActionConfirm)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AttachThread(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	// Pending orders have no payment thread yet.
	err = svc.AttachThread(ctx, o.ID, 42, "100:200")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(ctx, o.ID, 42, ActionConfirm)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AttachThread(ctx, o.ID, 99, "100:200"), ErrForbidden)
	require.NoError(t, svc.AttachThread(ctx, o.ID, 42, "100:200"))

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "100:200", got.ThreadRef)
}

type recordingSink struct {
	mu          sync.Mutex
	created     []string
	transitions []Action
}

func (s *recordingSink) OrderCreated(_ context.Context, o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, o.ID)
}

func (s *recordingSink) OrderTransitioned(_ context.Context, _ *Order, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions = append(s.transitions, action)
}

func TestService_EmitsLifecycleEvents(t *testing.T) {
	store := NewMemoryStore()
	sink := &recordingSink{}
	svc := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, sink)
	ctx := context.Background()

	o, err := svc.Create(ctx, sampleInput(42))
	require.NoError(t, err)

	_, err = svc.Transition(ctx, o.ID, 42, ActionConfirm)
	require.NoError(t, err)

	assert.Equal(t, []string{o.ID}, sink.created)
	assert.Equal(t, []Action{ActionConfirm}, sink.transitions)
}
