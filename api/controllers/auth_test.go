package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quadworks/storefront/internal/auth"
	pkgauth "github.com/quadworks/storefront/pkg/auth"
	"github.com/quadworks/storefront/pkg/config"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
)

type stubAuthService struct {
	response  *auth.AuthResponse
	err       error
	loggedOut string
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return s.response, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.response, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.AuthResponse, error) {
	return s.response, s.err
}

var controllerJWTConfig = config.JWTConfig{
	Secret:                 "controller-test-secret",
	Issuer:                 "storefront-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 1440,
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := &stubAuthService{response: &auth.AuthResponse{
		TokenPair: auth.TokenPair{AccessToken: "token", RefreshToken: "refresh"},
	}}
	handler := AuthRegister(svc, nil)

	body := `{"first_name":"Ana","last_name":"Reyes","email":"ana@example.com","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data auth.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token" {
		t.Fatalf("unexpected access token: %q", envelope.Data.AccessToken)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	body := `{"first_name":"Ana","last_name":"Reyes","email":"not-an-email","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"ana@example.com","password":"wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesTokenSession(t *testing.T) {
	token, err := pkgauth.MintAccessToken(controllerJWTConfig, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ana@example.com",
		Role:   "customer",
		JTI:    "access-123",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := &stubAuthService{}
	handler := AuthLogout(svc, controllerJWTConfig, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "access-123" {
		t.Fatalf("expected session access-123 revoked, got %q", svc.loggedOut)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, controllerJWTConfig, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRequiresBothTokens(t *testing.T) {
	handler := AuthRefresh(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"access_token":"x"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
