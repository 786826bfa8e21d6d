package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts a new user and their profile in one statement chain.
func (r *repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *repository) UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user row. Profiles cascade; order rows keep their
// snapshot with user_id nulled at the database level.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Select("Profile").
		Delete(&models.User{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.User, string, bool, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Preload("Profile")

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	cursor, err := pagination.Parse(params.Cursor)
	if err != nil {
		return nil, "", false, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.User
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", false, err
	}

	if len(rows) <= limit {
		return rows, "", false, nil
	}
	rows = rows[:limit]
	last := rows[limit-1]
	next := pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	return rows, next, true, nil
}
