package orders

import (
	"crypto/rand"
	"fmt"
)

const (
	orderNumberPrefix = "ORD-"
	orderNumberLength = 10
	// Crockford-ish alphabet, no 0/1/O/I lookalikes.
	orderNumberAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
)

// NewOrderNumber produces a human-readable order reference. Randomness
// makes collisions negligible at any creation rate; uniqueness is still
// enforced by the database index with a single retry.
func NewOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating order number: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return orderNumberPrefix + string(buf), nil
}
