package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

// TokenListRefresher reloads the verified token list
type TokenListRefresher interface {
	Refresh(ctx context.Context) error
	Len() int
	FetchedAt() time.Time
}

// MetadataCacheAdmin inspects and evicts cached token metadata
type MetadataCacheAdmin interface {
	Get(ctx context.Context, id string) (*asset.Metadata, bool, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// AdminHandler handles operator endpoints
type AdminHandler struct {
	tokenList TokenListRefresher
	cache     MetadataCacheAdmin
	logger    *logger.Logger
}

// NewAdminHandler creates a new admin handler. cache may be nil, in which
// case the token-cache endpoints answer 404.
func NewAdminHandler(tokenList TokenListRefresher, cache MetadataCacheAdmin, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		tokenList: tokenList,
		cache:     cache,
		logger:    log.WithField("component", "admin_handler"),
	}
}

func (h *AdminHandler) requestLogger(r *http.Request) *logger.Logger {
	subject, _ := middleware.GetSubjectFromContext(r.Context())
	return h.logger.WithContext(r.Context()).WithField("subject", subject)
}

// RefreshResponse reports the verified list after a refresh
type RefreshResponse struct {
	Tokens    int       `json:"tokens"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// RefreshTokenList handles POST /admin/token-list/refresh
func (h *AdminHandler) RefreshTokenList(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	if err := h.tokenList.Refresh(r.Context()); err != nil {
		respondServiceError(w, log, err)
		return
	}

	log.Info("verified token list refreshed", "tokens", h.tokenList.Len())
	respondJSON(w, RefreshResponse{
		Tokens:    h.tokenList.Len(),
		FetchedAt: h.tokenList.FetchedAt(),
	}, http.StatusOK)
}

// cachedTokenID reads and validates the {id} path parameter. It writes the
// error response itself and reports whether the handler may continue.
func (h *AdminHandler) cachedTokenID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.cache == nil {
		respondError(w, "metadata cache not configured", http.StatusNotFound)
		return "", false
	}
	id := asset.NormalizeID(chi.URLParam(r, "id"))
	if err := asset.ValidateID(id); err != nil {
		respondServiceError(w, h.requestLogger(r), err)
		return "", false
	}
	return id, true
}

// GetCachedToken handles GET /admin/token-cache/{id}
func (h *AdminHandler) GetCachedToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cachedTokenID(w, r)
	if !ok {
		return
	}

	m, found, err := h.cache.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.requestLogger(r), err)
		return
	}
	if !found {
		respondError(w, "token not cached", http.StatusNotFound)
		return
	}
	respondJSON(w, m, http.StatusOK)
}

// EvictCachedToken handles DELETE /admin/token-cache/{id}
func (h *AdminHandler) EvictCachedToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cachedTokenID(w, r)
	if !ok {
		return
	}

	log := h.requestLogger(r)
	if err := h.cache.Delete(r.Context(), id); err != nil {
		respondServiceError(w, log, err)
		return
	}

	log.Info("token metadata evicted", "token_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearTokenCache handles DELETE /admin/token-cache
func (h *AdminHandler) ClearTokenCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		respondError(w, "metadata cache not configured", http.StatusNotFound)
		return
	}

	log := h.requestLogger(r)
	if err := h.cache.Clear(r.Context()); err != nil {
		respondServiceError(w, log, err)
		return
	}

	log.Info("token metadata cache cleared")
	w.WriteHeader(http.StatusNoContent)
}
