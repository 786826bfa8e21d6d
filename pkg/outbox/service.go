package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	"github.com/quadworks/storefront/pkg/logger"
)

// DomainEvent is the input to Emit. Data is marshalled into the stored
// envelope untouched.
type DomainEvent struct {
	EventType     enums.OutboxEventType
	AggregateType string
	AggregateID   uuid.UUID
	Actor         *ActorRef
	Data          any
	OccurredAt    time.Time
}

type Service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Emit appends the event to the outbox inside the caller's transaction
// so it commits or rolls back with the state change it describes.
func (s *Service) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	envelope := PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: event.OccurredAt,
		Actor:      event.Actor,
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	row := models.OutboxEvent{
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       payload,
	}
	if err := s.repo.Insert(tx, row); err != nil {
		return err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"event_id":     envelope.EventID,
			"event_type":   event.EventType,
			"aggregate_id": event.AggregateID.String(),
		})
		s.logg.Info(logCtx, "outbox event queued")
	}
	return nil
}
