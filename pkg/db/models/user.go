package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	Profile      *Profile       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile carries the optional contact and shipping details of a user.
// It is created in the same transaction as its user.
type Profile struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	PhoneNumber   *string    `gorm:"column:phone_number"`
	Address       *string    `gorm:"column:address"`
	City          *string    `gorm:"column:city"`
	State         *string    `gorm:"column:state"`
	PostalCode    *string    `gorm:"column:postal_code"`
	Country       *string    `gorm:"column:country"`
	Bio           *string    `gorm:"column:bio"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
