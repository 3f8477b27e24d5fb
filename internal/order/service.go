package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Lock keys live outside the "order:" prefix so the store's key scan
	// never picks them up.
	orderLockKeyPattern = "lock:order:%s"
	lockTTL             = 5 * time.Second
	maxIDAttempts       = 5
)

// ErrLocked indicates that a concurrent operation already holds the order lock.
var ErrLocked = errors.New("order is locked, try again later")

// EventSink receives lifecycle notifications for downstream consumers.
// Implementations must not block the caller for long; failures are logged
// by the implementation and never fail the operation.
type EventSink interface {
	OrderCreated(ctx context.Context, o *Order)
	OrderTransitioned(ctx context.Context, o *Order, action Action)
}

// CreateInput carries the already-parsed fields for a new order.
type CreateInput struct {
	GameName      string
	RawPrice      string
	SteamName     string
	PaymentMethod PaymentMethod
	RequesterID   int64
	RequesterName string
}

// Service owns the order lifecycle on top of a Store. Under a multi-replica
// deployment a Redis client provides per-order transition locks; with a nil
// client the store's own synchronization is the only guard, which is fine
// for a single process.
type Service struct {
	store       Store
	log         *slog.Logger
	redisClient *redis.Client
	events      EventSink
	now         func() time.Time
}

// NewService creates the lifecycle controller.
func NewService(store Store, log *slog.Logger, redisClient *redis.Client, events EventSink) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:       store,
		log:         log,
		redisClient: redisClient,
		events:      events,
		now:         time.Now,
	}
}

// Create inserts a new pending order with a freshly generated id and returns it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	id, err := s.freshID(ctx)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:            id,
		GameName:      input.GameName,
		SteamName:     input.SteamName,
		RawPrice:      input.RawPrice,
		PaymentMethod: input.PaymentMethod,
		RequesterID:   input.RequesterID,
		RequesterName: input.RequesterName,
		Status:        StatusPending,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.Put(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		slog.String("order_id", o.ID),
		slog.Int64("requester_id", o.RequesterID),
		slog.String("game", o.GameName),
		slog.String("method", string(o.PaymentMethod)),
	)

	if s.events != nil {
		s.events.OrderCreated(ctx, o)
	}

	return o.Clone(), nil
}

// Get returns the order or ErrNotFound. Pure lookup, no side effects.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.store.Get(ctx, id)
}

// ListByRequester returns the user's live orders.
func (s *Service) ListByRequester(ctx context.Context, requesterID int64) ([]*Order, error) {
	return s.store.ListByRequester(ctx, requesterID)
}

// Transition applies the action to the order under a per-order lock.
// It fails with ErrNotFound for unknown ids, ErrForbidden when the actor is
// not the creator, and ErrInvalidTransition when the action is not legal
// from the current status. Cancel removes the order entirely.
func (s *Service) Transition(ctx context.Context, id string, requesterID int64, action Action) (*Order, error) {
	if err := s.lock(ctx, id); err != nil {
		return nil, err
	}
	defer s.unlock(ctx, id)

	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.RequesterID != requesterID {
		s.log.Warn("transition by non-creator",
			slog.String("order_id", id),
			slog.Int64("actor_id", requesterID),
			slog.Int64("creator_id", o.RequesterID),
		)
		return nil, ErrForbidden
	}

	target, ok := TransitionTarget(o.Status, action)
	if !ok {
		s.log.Warn("invalid order transition",
			slog.String("order_id", id),
			slog.String("from", string(o.Status)),
			slog.String("action", string(action)),
		)
		return nil, ErrInvalidTransition
	}

	from := o.Status
	o.Status = target

	if action == ActionCancel {
		if err := s.store.Delete(ctx, id); err != nil {
			return nil, err
		}
	} else if err := s.store.Put(ctx, o); err != nil {
		return nil, err
	}

	transitionRecorder(action, from, target)

	s.log.Info("order transitioned",
		slog.String("order_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(target)),
	)

	if s.events != nil {
		s.events.OrderTransitioned(ctx, o, action)
	}

	return o.Clone(), nil
}

// AttachThread records the follow-up discussion reference after a successful
// confirmation. Only the creator may attach, and only once the order has
// left the pending stage.
func (s *Service) AttachThread(ctx context.Context, id string, requesterID int64, threadRef string) error {
	if err := s.lock(ctx, id); err != nil {
		return err
	}
	defer s.unlock(ctx, id)

	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if o.RequesterID != requesterID {
		return ErrForbidden
	}

	if o.Status == StatusPending {
		return ErrInvalidTransition
	}

	o.ThreadRef = threadRef
	return s.store.Put(ctx, o)
}

func (s *Service) freshID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := GenerateID()

		_, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}

		s.log.Warn("order id collision, regenerating", slog.String("order_id", id))
	}

	return "", fmt.Errorf("could not generate a unique order id after %d attempts", maxIDAttempts)
}

func (s *Service) lock(ctx context.Context, id string) error {
	if s.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(orderLockKeyPattern, id)
	acquired, err := s.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		s.log.Error("failed to acquire order lock", "order_id", id, "error", err)
		return err
	}

	if !acquired {
		s.log.Warn("order lock already held", "order_id", id)
		return ErrLocked
	}

	return nil
}

func (s *Service) unlock(ctx context.Context, id string) {
	if s.redisClient == nil {
		return
	}

	key := fmt.Sprintf(orderLockKeyPattern, id)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to release order lock", "order_id", id, "error", err)
	}
}
