package order

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	idPrefix      = "ORD-"
	idTokenLength = 9
	idAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateID returns a fresh order identifier: a short fixed prefix plus a
// random base-36 token. Collisions are improbable at the expected volume and
// the store re-checks on insert regardless.
func GenerateID() string {
	var sb strings.Builder
	sb.Grow(len(idPrefix) + idTokenLength)
	sb.WriteString(idPrefix)

	max := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idTokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken;
			// fall back to a fixed character rather than panic mid-handler.
			sb.WriteByte(idAlphabet[0])
			continue
		}
		sb.WriteByte(idAlphabet[n.Int64()])
	}

	return sb.String()
}
