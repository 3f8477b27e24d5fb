package order

import "context"

// Store defines the persistence contract for live orders. A missing record
// is indistinguishable from a deleted one: both yield ErrNotFound.
type Store interface {
	// Get returns the order for the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Order, error)
	// Put inserts or replaces the order keyed by its id.
	Put(ctx context.Context, o *Order) error
	// Delete removes the order; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// ListByRequester returns every live order created by the given user.
	ListByRequester(ctx context.Context, requesterID int64) ([]*Order, error)
	// List returns every live order. Used by metrics and the archive sweep.
	List(ctx context.Context) ([]*Order, error)
}
