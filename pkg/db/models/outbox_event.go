package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/quadworks/storefront/pkg/enums"
)

// OutboxEvent is a domain event written in the same transaction as the
// state change it describes, drained later by the mailer worker.
type OutboxEvent struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey"`
	EventType     enums.OutboxEventType `gorm:"column:event_type;type:text;not null;index"`
	AggregateType string                `gorm:"column:aggregate_type;type:text;not null"`
	AggregateID   uuid.UUID             `gorm:"column:aggregate_id;type:uuid;not null;index"`
	Payload       []byte                `gorm:"column:payload;type:jsonb;not null"`
	PublishedAt   *time.Time            `gorm:"column:published_at;index"`
	AttemptCount  int                   `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string               `gorm:"column:last_error"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (e *OutboxEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

var _ schema.Tabler = (*OutboxEvent)(nil)

func (OutboxEvent) TableName() string {
	return "outbox_events"
}
