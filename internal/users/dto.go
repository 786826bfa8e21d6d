package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	Profile     *ProfileDTO    `json:"profile,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProfileDTO carries the optional contact details attached to a user.
type ProfileDTO struct {
	PhoneNumber   *string    `json:"phone_number,omitempty"`
	Address       *string    `json:"address,omitempty"`
	City          *string    `json:"city,omitempty"`
	State         *string    `json:"state,omitempty"`
	PostalCode    *string    `json:"postal_code,omitempty"`
	Country       *string    `json:"country,omitempty"`
	Bio           *string    `json:"bio,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	EmailVerified bool       `json:"email_verified"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		Profile:     profileFromModel(u.Profile),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func profileFromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		PhoneNumber:   p.PhoneNumber,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		PostalCode:    p.PostalCode,
		Country:       p.Country,
		Bio:           p.Bio,
		DateOfBirth:   p.DateOfBirth,
		EmailVerified: p.EmailVerified,
	}
}

// CreateUserDTO holds the data required by the repo to persist a new user
// together with their profile.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         enums.UserRole
	PhoneNumber  *string
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Role:         role,
		IsActive:     true,
		Profile:      &models.Profile{PhoneNumber: c.PhoneNumber},
	}
}

// UpdateProfileInput carries the editable profile fields. Nil pointers
// leave the stored value untouched.
type UpdateProfileInput struct {
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Address     *string    `json:"address,omitempty"`
	City        *string    `json:"city,omitempty"`
	State       *string    `json:"state,omitempty"`
	PostalCode  *string    `json:"postal_code,omitempty"`
	Country     *string    `json:"country,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// ChangePasswordInput verifies the current password before storing a new one.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AdminUpdateInput flips the role or active flag of a user.
type AdminUpdateInput struct {
	Role     *enums.UserRole `json:"role,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}

// ListFilters narrows the admin user listing.
type ListFilters struct {
	Query string
}

// UserList is one page of users plus the cursor for the next.
type UserList struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}
