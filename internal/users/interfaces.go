package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/pagination"
)

// Repository exposes user persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.User, string, bool, error)
}
