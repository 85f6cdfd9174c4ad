package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvalverde/cartfront-backend/api/controllers"
	"github.com/mvalverde/cartfront-backend/api/middleware"
	"github.com/mvalverde/cartfront-backend/internal/auth"
	cartsvc "github.com/mvalverde/cartfront-backend/internal/cart"
	"github.com/mvalverde/cartfront-backend/internal/catalog"
	checkoutsvc "github.com/mvalverde/cartfront-backend/internal/checkout"
	ordersvc "github.com/mvalverde/cartfront-backend/internal/orders"
	"github.com/mvalverde/cartfront-backend/pkg/config"
	"github.com/mvalverde/cartfront-backend/pkg/logger"
	"github.com/mvalverde/cartfront-backend/pkg/metrics"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         controllers.Pinger
	RateLimiter   middleware.RateLimiterStore
	ServerMetrics *metrics.ServerMetrics

	AuthService     auth.Service
	CatalogService  catalog.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrdersService   ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.ServerMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, deps.RateLimiter, logg)).
			Post("/signup", controllers.AuthSignup(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
			r.Delete("/delete-account", controllers.AuthDeleteAccount(deps.AuthService, logg))
			r.With(middleware.RequireAdmin(logg)).
				Post("/create-admin", controllers.AuthCreateAdmin(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/add", controllers.CartAdd(deps.CartService, logg))
			r.Delete("/remove/{productId}", controllers.CartRemove(deps.CartService, logg))
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))
		})

		r.Get("/orders", controllers.OrdersList(deps.OrdersService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(deps.CatalogService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.CatalogService, logg))
		})
	})

	return r
}
