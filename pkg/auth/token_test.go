package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Email:  "shopper@example.com",
		Role:   enums.UserRoleCustomer,
		JTI:    "access-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: got %s want %s", claims.UserID, userID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("role mismatch: got %s", claims.Role)
	}
	if claims.ID != "access-1" {
		t.Fatalf("jti mismatch: got %q", claims.ID)
	}
	if claims.IsAdmin() {
		t.Fatal("customer claims should not report admin")
	}
}

func TestMintRejectsInvalidInputs(t *testing.T) {
	cfg := testJWTConfig()
	valid := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, valid},
		{"missing issuer", config.JWTConfig{Secret: "x", ExpirationMinutes: 1}, valid},
		{"zero expiry", config.JWTConfig{Secret: "x", Issuer: "x"}, valid},
		{"bad role", cfg, AccessTokenPayload{UserID: uuid.New(), Role: "superuser"}},
		{"nil user id", cfg, AccessTokenPayload{Role: enums.UserRoleCustomer}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, time.Now(), tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
		JTI:    "expired-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired returned error: %v", err)
	}
	if claims.ID != "expired-1" {
		t.Fatalf("expected jti to survive expired parse, got %q", claims.ID)
	}
}
