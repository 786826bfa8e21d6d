package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/internal/users"
	pkgauth "github.com/quadworks/storefront/pkg/auth"
	"github.com/quadworks/storefront/pkg/auth/session"
	"github.com/quadworks/storefront/pkg/config"
	dbpkg "github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	WithTx(tx *gorm.DB) users.Repository
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	TxRunner       txRunner
	SessionManager sessionManager
	Hasher         *security.Hasher
	JWTConfig      config.JWTConfig
}

type service struct {
	users   userRepository
	tx      txRunner
	session sessionManager
	hasher  *security.Hasher
	jwtCfg  config.JWTConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	return &service{
		users:   params.UserRepo,
		tx:      params.TxRunner,
		session: params.SessionManager,
		hasher:  params.Hasher,
		jwtCfg:  params.JWTConfig,
	}, nil
}

// Register creates the user and their profile in one transaction, then
// issues a token pair.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		created, err := repo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Role:         enums.UserRoleCustomer,
			PhoneNumber:  req.PhoneNumber,
		})
		if err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, time.Now().UTC())
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now

	return s.issueTokens(ctx, user, now)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Refresh rotates the refresh token and mints a fresh access token. The
// presented access token may be expired; only its signature and jti matter.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, refreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		TokenPair: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:      users.FromModel(user),
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.ToLower(strings.TrimSpace(email))
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User, now time.Time) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &AuthResponse{
		TokenPair: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:      users.FromModel(user),
	}, nil
}
