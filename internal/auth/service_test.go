package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/internal/users"
	pkgauth "github.com/quadworks/storefront/pkg/auth"
	"github.com/quadworks/storefront/pkg/auth/session"
	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/pagination"
	"github.com/quadworks/storefront/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User

	created   []users.CreateUserDTO
	lastLogin *time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) WithTx(*gorm.DB) users.Repository { return nil }

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

// txlessRepo lets the register flow reuse the same stub inside the fake
// transaction.
type txlessRepo struct{ *stubUserRepo }

func (r txlessRepo) WithTx(*gorm.DB) users.Repository { return r }

func (r txlessRepo) UpdatePasswordHash(context.Context, uuid.UUID, string) error { return nil }
func (r txlessRepo) UpdateUser(context.Context, uuid.UUID, map[string]any) error { return nil }
func (r txlessRepo) UpdateProfile(context.Context, uuid.UUID, map[string]any) error {
	return nil
}
func (r txlessRepo) Delete(context.Context, uuid.UUID) error { return nil }
func (r txlessRepo) List(context.Context, users.ListFilters, pagination.Params) ([]models.User, string, bool, error) {
	return nil, "", false, nil
}

type stubTx struct{ calls int }

func (s *stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubSession struct {
	generated []string
	revoked   []string

	rotateErr error
	newID     string
	newToken  string
}

func (s *stubSession) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSession) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.newID, s.newToken, nil
}

func (s *stubSession) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "storefront-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 1440,
	}
}

func testAuthHasher(t *testing.T) *security.Hasher {
	t.Helper()
	hasher, err := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("build hasher: %v", err)
	}
	return hasher
}

func newTestService(t *testing.T, repo userRepository, sess sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		TxRunner:       &stubTx{},
		SessionManager: sess,
		Hasher:         testAuthHasher(t),
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedActiveUser(t *testing.T, repo *stubUserRepo, hasher *security.Hasher, email, password string) *models.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Sam",
		LastName:     "Rider",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	repo.add(user)
	return user
}

func TestRegisterCreatesUserAndIssuesTokens(t *testing.T) {
	repo := newStubUserRepo()
	sess := &stubSession{}
	svc := newTestService(t, txlessRepo{repo}, sess)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Sam",
		LastName:  "Rider",
		Email:     "  Rider@Example.COM ",
		Password:  "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d users", len(repo.created))
	}
	if repo.created[0].Email != "rider@example.com" {
		t.Fatalf("email not normalized: %q", repo.created[0].Email)
	}
	if repo.created[0].Role != enums.UserRoleCustomer {
		t.Fatalf("role = %s", repo.created[0].Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if len(sess.generated) != 1 {
		t.Fatalf("generated %d sessions", len(sess.generated))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Email != "rider@example.com" {
		t.Fatalf("claims email = %q", claims.Email)
	}
	if claims.ID != sess.generated[0] {
		t.Fatal("jti must match the stored session access id")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	hasher := testAuthHasher(t)
	seedActiveUser(t, repo, hasher, "taken@example.com", "password123")
	svc := newTestService(t, txlessRepo{repo}, &stubSession{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Dup",
		LastName:  "User",
		Email:     "taken@example.com",
		Password:  "another password",
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("duplicate email must not create a user")
	}
}

func TestLoginStampsLastLogin(t *testing.T) {
	repo := newStubUserRepo()
	hasher := testAuthHasher(t)
	seedActiveUser(t, repo, hasher, "rider@example.com", "password123")
	sess := &stubSession{}
	svc := newTestService(t, txlessRepo{repo}, sess)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "rider@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if repo.lastLogin == nil {
		t.Fatal("last_login_at not stamped")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatal("response user must carry last_login_at")
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	repo := newStubUserRepo()
	hasher := testAuthHasher(t)
	user := seedActiveUser(t, repo, hasher, "rider@example.com", "password123")
	svc := newTestService(t, txlessRepo{repo}, &stubSession{})

	cases := map[string]LoginRequest{
		"unknown email":  {Email: "nobody@example.com", Password: "password123"},
		"wrong password": {Email: "rider@example.com", Password: "nope"},
		"empty email":    {Email: "   ", Password: "password123"},
	}
	for name, req := range cases {
		if _, err := svc.Login(context.Background(), req); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
	}

	user.IsActive = false
	if _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "rider@example.com",
		Password: "password123",
	}); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatal("inactive users must not log in")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := newStubUserRepo()
	hasher := testAuthHasher(t)
	user := seedActiveUser(t, repo, hasher, "rider@example.com", "password123")
	sess := &stubSession{newID: "access-2", newToken: "refresh-2"}
	svc := newTestService(t, txlessRepo{repo}, sess)

	accessToken, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    "access-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-1",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "refresh-2" {
		t.Fatalf("refresh token = %q", resp.RefreshToken)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != "access-2" {
		t.Fatalf("new jti = %q", claims.ID)
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	repo := newStubUserRepo()
	hasher := testAuthHasher(t)
	user := seedActiveUser(t, repo, hasher, "rider@example.com", "password123")
	sess := &stubSession{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, txlessRepo{repo}, sess)

	accessToken, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    "access-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "stolen",
	}); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newStubUserRepo()
	sess := &stubSession{}
	svc := newTestService(t, txlessRepo{repo}, sess)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sess.revoked) != 1 || sess.revoked[0] != "access-1" {
		t.Fatalf("revoked = %v", sess.revoked)
	}

	if err := svc.Logout(context.Background(), ""); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for missing session, got %v", err)
	}
}
