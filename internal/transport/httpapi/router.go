package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/utxoscan/internal/metrics"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi/handler"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger *logger.Logger
	// Network labels every access log line
	Network            string
	AllowedOrigins     []string
	TransactionHandler *handler.TransactionHandler
	AssetHandler       *handler.AssetHandler
	AdminHandler       *handler.AdminHandler
	HealthHandler      *handler.HealthHandler
	// AdminMiddleware guards admin routes; admin routes are not mounted without it
	AdminMiddleware func(http.Handler) http.Handler
	// RateLimiter overrides the default inbound limiter
	RateLimiter func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	rateLimit := cfg.RateLimiter
	if rateLimit == nil {
		rateLimit = middleware.RateLimit() // 100 req/s with burst of 20
	}

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger, cfg.Network))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))

	// Health and metrics endpoints are not rate limited
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)

		if cfg.TransactionHandler != nil {
			r.Route("/addresses/{address}/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.ListTransactions)
				r.Get("/export", cfg.TransactionHandler.ExportTransactions)
				r.Get("/{hash}", cfg.TransactionHandler.GetTransaction)
			})
		}

		if cfg.AssetHandler != nil {
			r.Get("/tokens/{id}", cfg.AssetHandler.GetToken)
		}

		// Admin routes (require an admin JWT)
		if cfg.AdminHandler != nil && cfg.AdminMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.AdminMiddleware)
				r.Post("/admin/token-list/refresh", cfg.AdminHandler.RefreshTokenList)
				r.Route("/admin/token-cache", func(r chi.Router) {
					r.Delete("/", cfg.AdminHandler.ClearTokenCache)
					r.Get("/{id}", cfg.AdminHandler.GetCachedToken)
					r.Delete("/{id}", cfg.AdminHandler.EvictCachedToken)
				})
			})
		}
	})

	return r
}
