package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const (
	orderKeyPattern  = "order:%s"
	orderScanPattern = "order:*"
)

// RedisStore persists live orders in Redis so multiple bot replicas share one
// view. Orders carry no TTL; they leave the store via cancel or archival.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore initializes a Redis-backed Store implementation.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
	}
}

// Get returns the stored order or ErrNotFound when absent.
func (s *RedisStore) Get(ctx context.Context, id string) (*Order, error) {
	data, err := s.client.Get(ctx, redisOrderKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		s.log.Error("failed to get order from redis", "order_id", id, "error", err)
		return nil, err
	}

	var o Order
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		s.log.Error("failed to decode order", "order_id", id, "error", err)
		return nil, err
	}

	return &o, nil
}

// Put saves the provided order.
func (s *RedisStore) Put(ctx context.Context, o *Order) error {
	if o == nil || o.ID == "" {
		return nil
	}

	data, err := json.Marshal(o)
	if err != nil {
		s.log.Error("failed to encode order", "order_id", o.ID, "error", err)
		return err
	}

	if err := s.client.Set(ctx, redisOrderKey(o.ID), data, 0).Err(); err != nil {
		s.log.Error("failed to save order in redis", "order_id", o.ID, "error", err)
		return err
	}

	return nil
}

// Delete removes the stored order.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisOrderKey(id)).Err(); err != nil {
		s.log.Error("failed to delete order", "order_id", id, "error", err)
		return err
	}

	return nil
}

// ListByRequester returns the user's live orders.
func (s *RedisStore) ListByRequester(ctx context.Context, requesterID int64) ([]*Order, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*Order, 0, len(all))
	for _, o := range all {
		if o.RequesterID == requesterID {
			result = append(result, o)
		}
	}

	return result, nil
}

// List retrieves every live order by scanning Redis keys.
func (s *RedisStore) List(ctx context.Context) ([]*Order, error) {
	var (
		cursor uint64
		result []*Order
	)

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, orderScanPattern, 100).Result()
		if err != nil {
			s.log.Error("failed to scan orders", "error", err)
			return nil, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}

				s.log.Error("failed to fetch order", "key", key, "error", err)
				return nil, err
			}

			var o Order
			if err := json.Unmarshal([]byte(data), &o); err != nil {
				s.log.Error("failed to decode order", "key", key, "error", err)
				continue
			}

			copied := o
			result = append(result, &copied)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	sortByCreated(result)
	return result, nil
}

func redisOrderKey(id string) string {
	return fmt.Sprintf(orderKeyPattern, id)
}
