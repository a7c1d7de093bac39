package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
)

// preflightMaxAge is how long browsers may cache a preflight answer
const preflightMaxAge = 5 * time.Minute

// CORS allows the configured explorer frontends to read the API. DELETE and
// Authorization are there for admin tooling served from the same origins;
// Retry-After lets clients honour the inbound rate limit and
// Content-Disposition names CSV exports.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After", "X-Request-Id"},
		MaxAge:         int(preflightMaxAge / time.Second),
	})
}
