package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}))
	return db
}

func TestCreatePersistsUserWithProfile(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	phone := "555-0101"
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "rider@example.com",
		PasswordHash: "hash",
		FirstName:    "Sam",
		LastName:     "Rider",
		PhoneNumber:  &phone,
	})
	require.NoError(t, err)

	loaded, err := repo.FindByEmail(context.Background(), "rider@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	require.NotNil(t, loaded.Profile)
	require.NotNil(t, loaded.Profile.PhoneNumber)
	assert.Equal(t, "555-0101", *loaded.Profile.PhoneNumber)
}

func TestDeleteRemovesProfileToo(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "gone@example.com",
		PasswordHash: "hash",
		FirstName:    "Going",
		LastName:     "Gone",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), user.ID))

	_, err = repo.FindByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.Zero(t, profiles)

	assert.ErrorIs(t, repo.Delete(context.Background(), user.ID), gorm.ErrRecordNotFound)
}

func TestListSearchesEmailAndName(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	seed := []CreateUserDTO{
		{Email: "alice@example.com", PasswordHash: "h", FirstName: "Alice", LastName: "Anders"},
		{Email: "bob@example.com", PasswordHash: "h", FirstName: "Bob", LastName: "Baker"},
		{Email: "carol@shop.test", PasswordHash: "h", FirstName: "Carol", LastName: "Anderson"},
	}
	for _, dto := range seed {
		_, err := repo.Create(context.Background(), dto)
		require.NoError(t, err)
	}

	rows, _, _, err := repo.List(context.Background(), ListFilters{Query: "anders"}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, _, _, err = repo.List(context.Background(), ListFilters{Query: "BOB@"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob@example.com", rows[0].Email)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	emails := []string{"first@example.com", "second@example.com", "third@example.com"}
	for i, email := range emails {
		user := &models.User{
			Email:        email,
			PasswordHash: "h",
			FirstName:    "U",
			LastName:     "Ser",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(user).Error)
	}

	page, next, hasMore, err := repo.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, hasMore)
	require.NotEmpty(t, next)
	assert.Equal(t, "third@example.com", page[0].Email)

	rest, next, hasMore, err := repo.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first@example.com", rest[0].Email)
	assert.False(t, hasMore)
	assert.Empty(t, next)
}
