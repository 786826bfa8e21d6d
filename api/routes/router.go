package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quadworks/storefront/api/controllers"
	"github.com/quadworks/storefront/api/middleware"
	"github.com/quadworks/storefront/internal/auth"
	"github.com/quadworks/storefront/internal/cart"
	"github.com/quadworks/storefront/internal/catalog"
	"github.com/quadworks/storefront/internal/orders"
	"github.com/quadworks/storefront/internal/users"
	"github.com/quadworks/storefront/pkg/auth/session"
	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/enums"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	DB       controllers.Pinger
	Sessions *session.Manager

	AuthService    auth.Service
	UsersService   users.Service
	CatalogService catalog.Service
	CartStore      *cart.Store
	OrdersService  orders.Service
}

// NewRouter assembles the full HTTP surface: public catalog reads, the
// rate-limited auth endpoints, the authenticated customer routes, and
// the admin surface behind a role check.
func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    d.Redis,
		}))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(d.CatalogService, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(d.CatalogService, logg))
		r.Get("/brands", controllers.BrandsList(d.CatalogService, logg))
		r.Get("/categories", controllers.CategoriesList(d.CatalogService, logg))
		r.Get("/models", controllers.ModelsList(d.CatalogService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Get("/me/profile", controllers.ProfileFetch(d.UsersService, logg))
			r.Put("/me/profile", controllers.ProfileUpdate(d.UsersService, logg))
			r.Post("/me/password", controllers.PasswordChange(d.UsersService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.CartStore, logg))
				r.Post("/items/{productId}", controllers.CartAddItem(d.CartStore, d.CatalogService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(d.CartStore, logg))
				r.Delete("/", controllers.CartClear(d.CartStore, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(middleware.Idempotency(d.Redis, logg, middleware.CriticalIdempotencyTTL)).
					Post("/", controllers.OrdersCreate(d.OrdersService, logg))
				r.Get("/", controllers.OrdersList(d.OrdersService, logg))
				r.Get("/{orderId}", controllers.OrdersDetail(d.OrdersService, logg))
				r.With(middleware.Idempotency(d.Redis, logg, middleware.CriticalIdempotencyTTL)).
					Post("/{orderId}/cancel", controllers.OrdersCancel(d.OrdersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(d.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.OrdersService, logg))
			r.With(middleware.Idempotency(d.Redis, logg, middleware.DefaultIdempotencyTTL)).
				Post("/{orderId}/status", controllers.AdminOrderStatus(d.OrdersService, logg))
			r.With(middleware.Idempotency(d.Redis, logg, middleware.DefaultIdempotencyTTL)).
				Post("/{orderId}/payment-status", controllers.AdminOrderPaymentStatus(d.OrdersService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(d.CatalogService, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(d.CatalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.CatalogService, logg))
			r.Post("/{productId}/images", controllers.AdminProductImageAttach(d.CatalogService, logg))
			r.Delete("/{productId}/images/{imageId}", controllers.AdminProductImageDetach(d.CatalogService, logg))
		})

		r.Route("/brands", func(r chi.Router) {
			r.Post("/", controllers.AdminBrandCreate(d.CatalogService, logg))
			r.Put("/{brandId}", controllers.AdminBrandUpdate(d.CatalogService, logg))
			r.Delete("/{brandId}", controllers.AdminBrandDelete(d.CatalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(d.CatalogService, logg))
			r.Put("/{categoryId}", controllers.AdminCategoryUpdate(d.CatalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(d.CatalogService, logg))
		})

		r.Route("/models", func(r chi.Router) {
			r.Post("/", controllers.AdminModelCreate(d.CatalogService, logg))
			r.Put("/{modelId}", controllers.AdminModelUpdate(d.CatalogService, logg))
			r.Delete("/{modelId}", controllers.AdminModelDelete(d.CatalogService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(d.UsersService, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(d.UsersService, logg))
			r.Patch("/{userId}", controllers.AdminUserUpdate(d.UsersService, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(d.UsersService, logg))
		})
	})

	return r
}
