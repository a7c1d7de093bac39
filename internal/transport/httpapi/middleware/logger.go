package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/utxoscan/pkg/logger"
)

// maxErrorBody bounds how much of an error response is kept for the log
const maxErrorBody = 1024

// routeTargets maps chi route parameters onto access log keys
var routeTargets = []struct{ param, key string }{
	{"address", string(logger.AddressKey)},
	{"hash", string(logger.TxHashKey)},
	{"id", string(logger.TokenIDKey)},
}

// errorRecorder keeps the head of 4xx/5xx bodies so the handler's error
// message can be logged next to the status.
type errorRecorder struct {
	chimiddleware.WrapResponseWriter
	body bytes.Buffer
}

func (e *errorRecorder) Write(b []byte) (int, error) {
	if e.Status() >= http.StatusBadRequest && e.body.Len() < maxErrorBody {
		e.body.Write(b[:min(len(b), maxErrorBody-e.body.Len())])
	}
	return e.WrapResponseWriter.Write(b)
}

// errorMessage returns the "error" field of a JSON error body, if any
func (e *errorRecorder) errorMessage() string {
	var obj struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.body.Bytes(), &obj) != nil {
		return ""
	}
	return obj.Error
}

// routePattern returns the matched chi pattern, or "unmatched" for 404s
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// routeAttrs returns the address, transaction and token a routed request targeted
func routeAttrs(r *http.Request) []any {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	var attrs []any
	for _, t := range routeTargets {
		if v := rctx.URLParam(t.param); v != "" {
			attrs = append(attrs, t.key, v)
		}
	}
	return attrs
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Logger returns the access log middleware. Every line carries the network
// the server reads from, the matched route and the request id; routed
// requests also log the address, transaction hash or token id they target.
func Logger(log *logger.Logger, network string) func(next http.Handler) http.Handler {
	access := log.WithField("network", network)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			rec := &errorRecorder{WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)}
			start := time.Now()

			// Propagate chi's request ID into our typed context key
			reqID := chimiddleware.GetReqID(r.Context())
			r = r.WithContext(logger.WithScope(r.Context(), logger.RequestIDKey, reqID))

			defer func() {
				status := rec.Status()
				attrs := []any{
					"method", r.Method,
					"route", routePattern(r),
					"path", r.URL.Path,
					"status", status,
					"bytes", rec.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"remote_addr", r.RemoteAddr,
				}
				if reqID != "" {
					attrs = append(attrs, "request_id", reqID)
				}
				attrs = append(attrs, routeAttrs(r)...)
				if status >= http.StatusBadRequest {
					if msg := rec.errorMessage(); msg != "" {
						attrs = append(attrs, "error", msg)
					}
				}

				access.Log(r.Context(), accessLevel(status), "HTTP request", attrs...)
			}()

			next.ServeHTTP(rec, r)
		}
		return http.HandlerFunc(fn)
	}
}
