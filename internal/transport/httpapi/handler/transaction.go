package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/utxoscan/internal/module/transactions"
	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

const (
	// DefaultExportPages bounds an export when ?pages is not given
	DefaultExportPages = 10
	// MaxExportPages is the largest accepted ?pages value
	MaxExportPages = 50
)

// TransactionServiceInterface defines the transaction reads needed by TransactionHandler
type TransactionServiceInterface interface {
	ListAddressTransactions(ctx context.Context, address string, page, limit int) ([]txinfo.TransactionInfo, error)
	GetAddressTransaction(ctx context.Context, address, hash string) (*txinfo.TransactionInfo, error)
	ExportAddressTransactions(ctx context.Context, address string, maxPages int) ([]txinfo.TransactionInfo, error)
}

// TransactionHandler handles address transaction requests
type TransactionHandler struct {
	service TransactionServiceInterface
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service TransactionServiceInterface, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  log.WithField("component", "transaction_handler"),
	}
}

// withAddress tags the request context (and therefore its logger) with the address
func withAddress(r *http.Request) (context.Context, string) {
	address := chi.URLParam(r, "address")
	return logger.WithScope(r.Context(), logger.AddressKey, address), address
}

// queryInt parses an optional positive integer query parameter
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

// ListTransactions handles GET /addresses/{address}/transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, address := withAddress(r)

	page, err := queryInt(r, "page", 1)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", transactions.DefaultLimit)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	infos, err := h.service.ListAddressTransactions(ctx, address, page, limit)
	if err != nil {
		respondServiceError(w, h.logger.WithContext(ctx), err)
		return
	}

	respondJSON(w, transactions.TransactionListResponse{
		Address:      address,
		Page:         page,
		Limit:        limit,
		Transactions: transactions.ToItems(infos),
	}, http.StatusOK)
}

// GetTransaction handles GET /addresses/{address}/transactions/{hash}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, address := withAddress(r)
	hash := chi.URLParam(r, "hash")
	ctx = logger.WithScope(ctx, logger.TxHashKey, hash)

	info, err := h.service.GetAddressTransaction(ctx, address, hash)
	if err != nil {
		respondServiceError(w, h.logger.WithContext(ctx), err)
		return
	}

	respondJSON(w, transactions.ToItem(*info), http.StatusOK)
}

// ExportTransactions handles GET /addresses/{address}/transactions/export
func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, address := withAddress(r)

	pages, err := queryInt(r, "pages", DefaultExportPages)
	if err != nil || pages > MaxExportPages {
		respondError(w, fmt.Sprintf("pages must be between 1 and %d", MaxExportPages), http.StatusBadRequest)
		return
	}

	infos, err := h.service.ExportAddressTransactions(ctx, address, pages)
	if err != nil {
		respondServiceError(w, h.logger.WithContext(ctx), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-transactions.csv"`, address))
	w.WriteHeader(http.StatusOK)
	if err := transactions.WriteCSV(w, infos); err != nil {
		// headers are already sent
		h.logger.WithContext(ctx).Error("failed to write export", "error", err)
	}
}
