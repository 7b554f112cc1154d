package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/config"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
)

// NewRouter wires every endpoint of the storefront API
func NewRouter(
	payments *PaymentHandler,
	storefront *StorefrontHandler,
	admin *AdminHandler,
	limiter ports.RateLimiter,
	adminCfg config.AdminConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)
	r.Use(PrometheusMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/payment", func(r chi.Router) {
			r.With(RateLimitMiddleware(limiter)).Post("/create-order", payments.CreateOrder)
			r.Post("/verify", payments.Verify)
			r.Post("/webhook", payments.Webhook)
		})

		r.Get("/products", storefront.ListProducts)
		r.Get("/products/{id}", storefront.GetProduct)
		r.Get("/orders/{number}", storefront.TrackOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(adminCfg.JWTSecret))
				r.Get("/orders", admin.ListOrders)
				r.Put("/orders/{id}/status", admin.UpdateOrderStatus)
				r.Post("/products", admin.SaveProduct)
				r.Delete("/products/{id}", admin.DeleteProduct)
			})
		})
	})

	return r
}
