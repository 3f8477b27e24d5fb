// Package archive provides durable storage for settled orders that have been
// swept out of the live store.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/nordbyte/orderbot/internal/order"
)

// ErrNotFound indicates that no archived record exists for the id.
var ErrNotFound = errors.New("archived order not found")

// Record is the durable shape of a settled order.
type Record struct {
	ID            string
	GameName      string
	SteamName     string
	RawPrice      string
	PaymentMethod string
	RequesterID   int64
	RequesterName string
	Status        string
	ThreadRef     string
	CreatedAt     time.Time
	ArchivedAt    time.Time
}

// Repository defines archive persistence operations.
type Repository interface {
	// Save stores or replaces the record.
	Save(ctx context.Context, rec *Record) error
	// Find returns the archived record for the id or ErrNotFound.
	Find(ctx context.Context, id string) (*Record, error)
}

// FromOrder converts a live order into its archive representation.
func FromOrder(o *order.Order, archivedAt time.Time) *Record {
	if o == nil {
		return nil
	}

	return &Record{
		ID:            o.ID,
		GameName:      o.GameName,
		SteamName:     o.SteamName,
		RawPrice:      o.RawPrice,
		PaymentMethod: string(o.PaymentMethod),
		RequesterID:   o.RequesterID,
		RequesterName: o.RequesterName,
		Status:        string(o.Status),
		ThreadRef:     o.ThreadRef,
		CreatedAt:     o.CreatedAt,
		ArchivedAt:    archivedAt.UTC(),
	}
}
