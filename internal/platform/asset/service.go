package asset

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kislikjeka/utxoscan/pkg/logger"
)

// DefaultConcurrency bounds parallel NFT document fetches
const DefaultConcurrency = 8

// Resolver gathers metadata for token ids from, in order: the verified
// list, the metadata cache, and finally the explorer and node APIs.
// Upstream failures degrade to lookup misses; they never fail a resolve.
type Resolver struct {
	verified    *VerifiedList
	cache       MetadataCache
	types       TokenTypeProvider
	node        NodeMetadataProvider
	concurrency int
	logger      *logger.Logger
}

// NewResolver creates a new metadata resolver. cache and types may be nil.
func NewResolver(
	verified *VerifiedList,
	cache MetadataCache,
	types TokenTypeProvider,
	node NodeMetadataProvider,
	concurrency int,
	log *logger.Logger,
) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{
		verified:    verified,
		cache:       cache,
		types:       types,
		node:        node,
		concurrency: concurrency,
		logger:      log.WithField("component", "asset_resolver"),
	}
}

// Verified exposes the verified list (for refresh endpoints)
func (r *Resolver) Verified() *VerifiedList {
	return r.verified
}

// Resolve returns a Catalog holding every id whose metadata could be found.
// Only context cancellation is reported as an error.
func (r *Resolver) Resolve(ctx context.Context, ids []string) (Catalog, error) {
	catalog := make(Catalog)
	missing := uniqueIDs(ids)
	if len(missing) == 0 {
		return catalog, nil
	}

	if r.verified != nil {
		tokens, err := r.verified.Tokens(ctx)
		if err != nil {
			r.logger.Warn("verified token list refresh failed, using last snapshot", "error", err)
		}
		missing = r.take(catalog, missing, tokens)
	}

	if r.cache != nil && len(missing) > 0 {
		cached, err := r.cache.GetMultiple(ctx, missing)
		if err != nil {
			r.logger.Warn("metadata cache read failed", "error", err)
		}
		missing = r.take(catalog, missing, cached)
	}

	if len(missing) == 0 {
		return catalog, nil
	}

	fetched := r.fetch(ctx, missing)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]Metadata, 0, len(fetched))
	for _, m := range fetched {
		catalog[m.ID] = m
		items = append(items, m)
	}

	if r.cache != nil && len(items) > 0 {
		if err := r.cache.SetMultiple(ctx, items); err != nil {
			r.logger.Warn("metadata cache write failed", "error", err)
		}
	}

	r.logger.Debug("metadata resolved",
		"requested", len(ids),
		"resolved", len(catalog),
		"fetched", len(items))

	return catalog, nil
}

// Get resolves a single id, returning ErrAssetNotFound on a miss
func (r *Resolver) Get(ctx context.Context, id string) (*Metadata, error) {
	id = NormalizeID(id)
	if IsNative(id) {
		native := Native
		return &native, nil
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	catalog, err := r.Resolve(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	m, ok := catalog[id]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return &m, nil
}

// take moves hits from source into catalog and returns the remaining ids
func (r *Resolver) take(catalog Catalog, ids []string, source map[string]Metadata) []string {
	remaining := ids[:0:0]
	for _, id := range ids {
		if m, ok := source[id]; ok {
			catalog[id] = m
			continue
		}
		remaining = append(remaining, id)
	}
	return remaining
}

// fetch queries the explorer for token types, then the node for fungible and
// non-fungible metadata in parallel.
func (r *Resolver) fetch(ctx context.Context, ids []string) []Metadata {
	types := make(map[string]Type)
	if r.types != nil {
		t, err := r.types.GetTokenTypes(ctx, ids)
		if err != nil {
			r.logger.Warn("token type lookup failed, assuming fungible", "error", err)
		} else {
			types = t
		}
	}

	var fungibleIDs, nftIDs []string
	for _, id := range ids {
		if types[id] == TypeNonFungible {
			nftIDs = append(nftIDs, id)
		} else {
			fungibleIDs = append(fungibleIDs, id)
		}
	}

	var (
		mu     sync.Mutex
		result []Metadata
	)
	collect := func(items ...Metadata) {
		mu.Lock()
		defer mu.Unlock()
		result = append(result, items...)
	}

	g, gctx := errgroup.WithContext(ctx)

	if len(fungibleIDs) > 0 {
		g.Go(func() error {
			items, err := r.node.FetchFungibleTokenMetadata(gctx, fungibleIDs)
			if err != nil {
				r.logger.Warn("fungible metadata fetch failed", "count", len(fungibleIDs), "error", err)
				return nil
			}
			for i := range items {
				items[i].ID = NormalizeID(items[i].ID)
				items[i].Verified = false
				items[i].Type = TypeFungible
			}
			collect(items...)
			return nil
		})
	}

	if len(nftIDs) > 0 {
		g.Go(func() error {
			collect(r.fetchNFTs(gctx, nftIDs)...)
			return nil
		})
	}

	_ = g.Wait()
	return result
}

func (r *Resolver) fetchNFTs(ctx context.Context, ids []string) []Metadata {
	infos, err := r.node.FetchNFTMetadata(ctx, ids)
	if err != nil {
		r.logger.Warn("nft metadata fetch failed", "count", len(ids), "error", err)
		return nil
	}

	result := make([]Metadata, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, info := range infos {
		result[i] = Metadata{
			ID:   NormalizeID(info.ID),
			Type: TypeNonFungible,
		}
		if info.TokenURI == "" {
			continue
		}
		g.Go(func() error {
			doc, err := r.node.FetchNFTDocument(gctx, info.TokenURI)
			if err != nil {
				r.logger.Debug("nft document unavailable", "token_id", info.ID, "error", err)
				return nil
			}
			result[i].Name = doc.Name
			result[i].Description = doc.Description
			result[i].LogoURI = doc.Image
			return nil
		})
	}

	_ = g.Wait()
	return result
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = NormalizeID(id)
		if id == "" || IsNative(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
