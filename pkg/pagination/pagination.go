package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when callers do not pass one.
	DefaultLimit = 20
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is a (created_at, id) position in a createdAt-descending scan.
// The id breaks ties between rows created in the same instant.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit enforces the default and maximum page sizes.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalized limit plus one row, used to
// detect whether a next page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Encode serializes a cursor into an opaque base64 token.
func Encode(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// Parse decodes a cursor token. Empty input yields a nil cursor and no
// error so list endpoints treat it as "from the start".
func Parse(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
