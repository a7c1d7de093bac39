package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kislikjeka/utxoscan/internal/infra/gateway"
	"github.com/kislikjeka/utxoscan/internal/module/transactions"
	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// statusFor maps domain and gateway errors onto HTTP status codes
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, utxo.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid address"
	case errors.Is(err, transactions.ErrInvalidPage):
		return http.StatusBadRequest, "invalid page or limit"
	case errors.Is(err, asset.ErrInvalidTokenID):
		return http.StatusBadRequest, "invalid token id"
	case errors.Is(err, gateway.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, transactions.ErrNotInvolved):
		return http.StatusNotFound, "transaction does not involve address"
	case errors.Is(err, asset.ErrAssetNotFound):
		return http.StatusNotFound, "token not found"
	case gateway.IsRateLimitError(err):
		return http.StatusTooManyRequests, "upstream rate limit exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream timeout"
	case errors.Is(err, asset.ErrTokenListUnavailable):
		return http.StatusBadGateway, "verified token list unavailable"
	default:
		return http.StatusBadGateway, "upstream request failed"
	}
}

// respondServiceError logs err and writes the mapped status.
// Upstream details stay in the log; clients get a fixed message.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	status, message := statusFor(err)
	if status >= 500 {
		log.Error("request failed", "error", err, "status", status)
	} else {
		log.Debug("request rejected", "error", err, "status", status)
	}
	respondError(w, message, status)
}
