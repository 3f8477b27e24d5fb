// Package order implements the game order lifecycle: creation, the
// pending → confirmed → payment_pending state machine, cancellation and
// lookup, on top of a pluggable Store.
package order

import (
	"errors"
	"strings"
	"time"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusPending indicates a freshly placed order awaiting user confirmation.
	StatusPending Status = "pending"
	// StatusConfirmed indicates the user confirmed the order and payment instructions were issued.
	StatusConfirmed Status = "confirmed"
	// StatusPaymentPending indicates the user declared the payment sent; moderation is external.
	StatusPaymentPending Status = "payment_pending"
	// StatusCancelled is terminal; cancelled orders are removed from the store.
	StatusCancelled Status = "cancelled"
)

// Action is a requested lifecycle transition.
type Action string

const (
	ActionConfirm        Action = "confirm"
	ActionCancel         Action = "cancel"
	ActionConfirmPayment Action = "confirm_payment"
)

// PaymentMethod enumerates the accepted payment methods.
type PaymentMethod string

const (
	MethodSwish  PaymentMethod = "Swish"
	MethodPayPal PaymentMethod = "PayPal"
	MethodCard   PaymentMethod = "Credit Card"
	MethodCrypto PaymentMethod = "Crypto"
	MethodBank   PaymentMethod = "Bank Transfer"
	MethodOther  PaymentMethod = "Other"
)

// Methods lists every accepted payment method, in display order.
func Methods() []PaymentMethod {
	return []PaymentMethod{MethodSwish, MethodPayPal, MethodCard, MethodCrypto, MethodBank, MethodOther}
}

// NormalizeMethod maps free-text payment method names onto the enumerated
// set. Unrecognized values become MethodOther; the free-text path never
// rejects an order because of the method field.
func NormalizeMethod(raw string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "swish":
		return MethodSwish
	case "paypal":
		return MethodPayPal
	case "card", "credit card", "creditcard", "kort":
		return MethodCard
	case "crypto", "bitcoin", "btc":
		return MethodCrypto
	case "bank", "bank transfer", "banköverföring":
		return MethodBank
	default:
		return MethodOther
	}
}

// LookupMethod resolves raw input against the fixed choice list. It reports
// false for anything outside the enumerated set; used by the command path,
// which constrains the method at the interface level.
func LookupMethod(raw string) (PaymentMethod, bool) {
	normalized := NormalizeMethod(raw)
	if normalized == MethodOther && !strings.EqualFold(strings.TrimSpace(raw), string(MethodOther)) {
		return "", false
	}
	return normalized, true
}

var (
	// ErrNotFound indicates that no order exists for the given id.
	ErrNotFound = errors.New("order not found")
	// ErrForbidden indicates the actor is not the order's creator.
	ErrForbidden = errors.New("actor is not the order creator")
	// ErrInvalidTransition indicates the action is not legal from the current status.
	ErrInvalidTransition = errors.New("invalid order transition")
)

// Order is a user's request to purchase a game via the reseller arrangement.
type Order struct {
	ID            string        `json:"id"`
	GameName      string        `json:"game_name"`
	SteamName     string        `json:"steam_name"`
	RawPrice      string        `json:"raw_price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	RequesterID   int64         `json:"requester_id"`
	RequesterName string        `json:"requester_name"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	ThreadRef     string        `json:"thread_ref,omitempty"`
}

// Clone returns a deep copy so callers can never mutate stored records in place.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}

	copied := *o
	return &copied
}

// Settled reports whether the order left the pending stage and is eligible
// for archival once the retention period has elapsed.
func (o *Order) Settled() bool {
	if o == nil {
		return false
	}

	return o.Status == StatusConfirmed || o.Status == StatusPaymentPending
}
