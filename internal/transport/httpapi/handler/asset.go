package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

// TokenResolverInterface resolves metadata for a single token id
type TokenResolverInterface interface {
	Get(ctx context.Context, id string) (*asset.Metadata, error)
}

// AssetHandler handles token metadata requests
type AssetHandler struct {
	resolver TokenResolverInterface
	logger   *logger.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(resolver TokenResolverInterface, log *logger.Logger) *AssetHandler {
	return &AssetHandler{
		resolver: resolver,
		logger:   log.WithField("component", "asset_handler"),
	}
}

// GetToken handles GET /tokens/{id}
func (h *AssetHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.WithScope(r.Context(), logger.TokenIDKey, id)

	m, err := h.resolver.Get(ctx, id)
	if err != nil {
		respondServiceError(w, h.logger.WithContext(ctx), err)
		return
	}
	respondJSON(w, m, http.StatusOK)
}
