package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Cart           *CartHandler
	Catalog        *CatalogHandler
	Log            *zap.Logger
	RequestTimeout time.Duration
	SecureCookies  bool
	SessionMaxAge  time.Duration
}

// NewRouter wires every route behind the common middleware stack.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(RouteSpanName)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.SecureCookies, cfg.SessionMaxAge))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddItem)
				r.Patch("/items/{line_id}", cfg.Cart.UpdateItem)
				r.Delete("/items/{line_id}", cfg.Cart.RemoveItem)
				r.Post("/refresh", cfg.Cart.Refresh)
				r.Post("/panel", cfg.Cart.Panel)
				r.Put("/buyer", cfg.Cart.UpdateBuyer)
				r.Put("/discounts", cfg.Cart.ApplyDiscounts)
			})
			r.Get("/checkout", cfg.Cart.Checkout)
		})

		r.Get("/products", cfg.Catalog.Products)
		r.Get("/products/{handle}", cfg.Catalog.Product)
		r.Get("/products/{handle}/recommendations", cfg.Catalog.Recommendations)
		r.Get("/search", cfg.Catalog.Search)
		r.Get("/collections", cfg.Catalog.Collections)
		r.Get("/collections/{handle}/products", cfg.Catalog.CollectionProducts)
		r.Get("/shop", cfg.Catalog.Shop)
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}))
}
