package transactions

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// TransactionSource fetches raw transactions from the explorer
type TransactionSource interface {
	GetTransaction(ctx context.Context, hash string) (utxo.Transaction, error)
	GetAddressTransactions(ctx context.Context, address string, page, limit int) ([]utxo.Transaction, error)
	GetMempoolTransactions(ctx context.Context, address string) ([]utxo.Transaction, error)
}

// MetadataResolver resolves token metadata ahead of a build
type MetadataResolver interface {
	Resolve(ctx context.Context, ids []string) (asset.Catalog, error)
}

// Service serves classified transactions for an address.
//
// All network work for a page happens first (transactions, then one metadata
// resolve); building each TransactionInfo is synchronous and pure.
type Service struct {
	source   TransactionSource
	resolver MetadataResolver
	builder  *txinfo.Builder
	logger   *logger.Logger
}

// NewService creates a new transaction service
func NewService(source TransactionSource, resolver MetadataResolver, builder *txinfo.Builder, log *logger.Logger) *Service {
	if builder == nil {
		builder = txinfo.NewBuilder(nil)
	}
	return &Service{
		source:   source,
		resolver: resolver,
		builder:  builder,
		logger:   log.WithField("component", "transactions"),
	}
}

// ListAddressTransactions returns one page of classified transactions.
// Page 1 starts with the address's pending transactions.
func (s *Service) ListAddressTransactions(ctx context.Context, address string, page, limit int) ([]txinfo.TransactionInfo, error) {
	if err := utxo.ValidateAddress(address); err != nil {
		return nil, err
	}
	if page < 1 || limit < 0 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: page=%d limit=%d", ErrInvalidPage, page, limit)
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	var confirmed, pending []utxo.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.source.GetAddressTransactions(gctx, address, page, limit)
		if err != nil {
			return fmt.Errorf("failed to fetch transactions: %w", err)
		}
		confirmed = txs
		return nil
	})
	if page == 1 {
		g.Go(func() error {
			txs, err := s.source.GetMempoolTransactions(gctx, address)
			if err != nil {
				// pending rows are best effort
				s.logger.Warn("mempool fetch failed", "address", address, "error", err)
				return nil
			}
			pending = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	txs := mergePending(pending, confirmed)
	return s.build(ctx, address, txs)
}

// GetAddressTransaction returns one transaction classified for address
func (s *Service) GetAddressTransaction(ctx context.Context, address, hash string) (*txinfo.TransactionInfo, error) {
	if err := utxo.ValidateAddress(address); err != nil {
		return nil, err
	}

	tx, err := s.source.GetTransaction(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", hash, err)
	}
	if !tx.Involves(address) {
		return nil, ErrNotInvolved
	}

	infos, err := s.build(ctx, address, []utxo.Transaction{tx})
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}

// ExportAddressTransactions collects confirmed transactions page by page,
// stopping at the first short page or after maxPages pages
func (s *Service) ExportAddressTransactions(ctx context.Context, address string, maxPages int) ([]txinfo.TransactionInfo, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	var result []txinfo.TransactionInfo
	for page := 1; page <= maxPages; page++ {
		infos, err := s.ListAddressTransactions(ctx, address, page, MaxLimit)
		if err != nil {
			return nil, err
		}
		confirmed := 0
		for _, info := range infos {
			if info.IsPending() {
				continue
			}
			result = append(result, info)
			confirmed++
		}
		if confirmed < MaxLimit {
			break
		}
	}
	return result, nil
}

func (s *Service) build(ctx context.Context, address string, txs []utxo.Transaction) ([]txinfo.TransactionInfo, error) {
	catalog := asset.Catalog{}
	if ids := txinfo.TokenIDs(txs...); len(ids) > 0 && s.resolver != nil {
		resolved, err := s.resolver.Resolve(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve token metadata: %w", err)
		}
		catalog = resolved
	}

	result := make([]txinfo.TransactionInfo, 0, len(txs))
	for _, tx := range txs {
		info, err := s.builder.Build(tx, address, catalog)
		if err != nil {
			s.logger.Error("failed to build transaction info", "hash", tx.Hash, "address", address, "error", err)
			return nil, fmt.Errorf("transaction %s: %w", tx.Hash, err)
		}
		result = append(result, info)
	}

	s.logger.Debug("transactions built", "address", address, "count", len(result), "tokens", len(catalog))
	return result, nil
}

// mergePending puts pending transactions first and drops any that have
// already been confirmed
func mergePending(pending, confirmed []utxo.Transaction) []utxo.Transaction {
	if len(pending) == 0 {
		return confirmed
	}

	seen := make(map[string]struct{}, len(confirmed))
	for _, tx := range confirmed {
		seen[tx.Hash] = struct{}{}
	}

	merged := make([]utxo.Transaction, 0, len(pending)+len(confirmed))
	for _, tx := range pending {
		if _, ok := seen[tx.Hash]; ok {
			continue
		}
		merged = append(merged, tx)
	}
	return append(merged, confirmed...)
}
