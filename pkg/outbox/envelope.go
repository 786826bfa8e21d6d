package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies who caused the event, when known.
type ActorRef struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role,omitempty"`
}

// PayloadEnvelope is the stored wire form of an outbox payload. The
// event-specific data sits in Data untouched.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"event_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
