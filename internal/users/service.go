package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	dbpkg "github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/db/models"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/pagination"
	"github.com/quadworks/storefront/pkg/security"
)

// Service covers self-service profile operations and admin user management.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error

	List(ctx context.Context, filters ListFilters, params pagination.Params) (*UserList, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo   Repository
	hasher *security.Hasher
}

func NewService(repo Repository, hasher *security.Hasher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &service{repo: repo, hasher: hasher}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	userUpdates := map[string]any{}
	if input.FirstName != nil {
		userUpdates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		userUpdates["last_name"] = *input.LastName
	}
	if len(userUpdates) > 0 {
		if err := s.repo.UpdateUser(ctx, user.ID, userUpdates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
	}

	profileUpdates := map[string]any{}
	setIfPresent(profileUpdates, "phone_number", input.PhoneNumber)
	setIfPresent(profileUpdates, "address", input.Address)
	setIfPresent(profileUpdates, "city", input.City)
	setIfPresent(profileUpdates, "state", input.State)
	setIfPresent(profileUpdates, "postal_code", input.PostalCode)
	setIfPresent(profileUpdates, "country", input.Country)
	setIfPresent(profileUpdates, "bio", input.Bio)
	if input.DateOfBirth != nil {
		profileUpdates["date_of_birth"] = *input.DateOfBirth
	}
	if len(profileUpdates) > 0 {
		if err := s.repo.UpdateProfile(ctx, user.ID, profileUpdates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
		}
	}

	return s.Get(ctx, id)
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(input.CurrentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store password")
	}
	return nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*UserList, error) {
	rows, next, hasMore, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &UserList{Users: dtos, NextCursor: next, HasMore: hasMore}, nil
}

func (s *service) AdminUpdate(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", *input.Role)
		}
		updates["role"] = *input.Role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	if err := s.repo.UpdateUser(ctx, id, updates); err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return s.Get(ctx, id)
}

// Delete removes a user. Self-deletion is refused so an admin cannot lock
// themselves out mid-session.
func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if dbpkg.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func setIfPresent(updates map[string]any, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}
