package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type cartKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

// Store keeps per-user carts in Redis. Every mutation writes the full
// cart back immediately and refreshes the TTL, so a cart behaves like
// session state that expires with inactivity.
type Store struct {
	kv  cartKV
	ttl time.Duration
}

func NewStore(kv cartKV, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Get loads the cart, returning an empty cart when none exists.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("loading cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return Cart{}, fmt.Errorf("decoding cart: %w", err)
	}
	return Cart{Lines: lines}, nil
}

// Add merges a product into the cart. With override the given quantity
// replaces the stored one, otherwise it is added to it. A resulting
// quantity of zero or less removes the line. Quantities never appear
// twice for the same product and insertion order is preserved.
func (s *Store) Add(ctx context.Context, userID, productID uuid.UUID, unitPrice decimal.Decimal, quantity int, override bool) (Cart, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return Cart{}, err
	}

	found := false
	next := make([]Line, 0, len(current.Lines)+1)
	for _, line := range current.Lines {
		if line.ProductID != productID {
			next = append(next, line)
			continue
		}
		found = true
		newQty := line.Quantity + quantity
		if override {
			newQty = quantity
		}
		if newQty <= 0 {
			continue
		}
		line.Quantity = newQty
		next = append(next, line)
	}
	if !found && quantity > 0 {
		next = append(next, Line{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice})
	}

	updated := Cart{Lines: next}
	if err := s.save(ctx, userID, updated); err != nil {
		return Cart{}, err
	}
	return updated, nil
}

// Remove drops a product line. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, userID, productID uuid.UUID) (Cart, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return Cart{}, err
	}

	next := make([]Line, 0, len(current.Lines))
	for _, line := range current.Lines {
		if line.ProductID == productID {
			continue
		}
		next = append(next, line)
	}

	updated := Cart{Lines: next}
	if err := s.save(ctx, userID, updated); err != nil {
		return Cart{}, err
	}
	return updated, nil
}

// Clear deletes the cart key, reporting whether a cart existed.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := s.kv.CartKey(userID.String())
	if _, err := s.kv.Get(ctx, key); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("checking cart: %w", err)
	}
	if err := s.kv.Del(ctx, key); err != nil {
		return false, fmt.Errorf("clearing cart: %w", err)
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, userID uuid.UUID, cart Cart) error {
	payload, err := json.Marshal(cart.Lines)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(userID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}
