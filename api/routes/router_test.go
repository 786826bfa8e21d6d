package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quadworks/storefront/internal/catalog"
	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/pagination"
)

type fakeCatalog struct {
	catalog.Service
}

func (fakeCatalog) ListProducts(ctx context.Context, filters catalog.ProductFilters, params pagination.Params) (*catalog.ProductList, error) {
	return &catalog.ProductList{}, nil
}

func (fakeCatalog) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return nil, nil
}

type healthyDep struct{}

func (healthyDep) Ping(ctx context.Context) error { return nil }

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.CORSOrigins = []string{"http://localhost:3000"}
	cfg.JWT = config.JWTConfig{Secret: "router-test", Issuer: "storefront-test", ExpirationMinutes: 15}

	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.Disabled, Output: io.Discard})

	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             healthyDep{},
		CatalogService: fakeCatalog{},
	})
}

func TestPublicCatalogRoutesAreOpen(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/api/v1/products", "/api/v1/brands"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestAuthenticatedRoutesRejectAnonymous(t *testing.T) {
	router := testRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/me/profile"},
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/admin/v1/orders"},
		{http.MethodGet, "/api/admin/v1/users"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestHealthLive(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Storefront-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Storefront-Env"))
	}
}
