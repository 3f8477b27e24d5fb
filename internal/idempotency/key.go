package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key builds a deterministic idempotency key from the given parts. Callback
// handlers feed it the acting user, the action and the order id so a repeated
// tap maps to the same key.
func Key(parts ...interface{}) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%v:", part)
	}

	return hex.EncodeToString(h.Sum(nil))
}
