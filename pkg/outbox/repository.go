package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
)

// Repository persists and drains outbox rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes one event row inside the caller's transaction.
func (r *Repository) Insert(tx *gorm.DB, row models.OutboxEvent) error {
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("inserting outbox event: %w", err)
	}
	return nil
}

// FetchUnpublished returns up to limit undelivered rows below the
// attempt ceiling, oldest first.
func (r *Repository) FetchUnpublished(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL AND attempt_count < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching unpublished outbox events: %w", err)
	}
	return rows, nil
}

// MarkPublished stamps the delivery time on one row.
func (r *Repository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published_at": at,
			"last_error":   nil,
		}).Error
	if err != nil {
		return fmt.Errorf("marking outbox event published: %w", err)
	}
	return nil
}

// MarkFailed bumps the attempt counter and records the error text.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_error":    cause,
		}).Error
	if err != nil {
		return fmt.Errorf("marking outbox event failed: %w", err)
	}
	return nil
}
