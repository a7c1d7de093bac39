package asset

import (
	"context"
)

// Lookup resolves metadata for a token id synchronously.
// A miss is not an error: the join degrades to an unverified entry.
type Lookup interface {
	Lookup(id string) (Metadata, bool)
}

// TokenListProvider fetches the published list of verified tokens
type TokenListProvider interface {
	FetchTokenList(ctx context.Context) ([]Metadata, error)
}

// TokenTypeProvider reports the token standard of each id (explorer index)
type TokenTypeProvider interface {
	GetTokenTypes(ctx context.Context, ids []string) (map[string]Type, error)
}

// NodeMetadataProvider reads token metadata straight from the chain
type NodeMetadataProvider interface {
	// FetchFungibleTokenMetadata returns metadata for the given fungible token ids.
	// Ids unknown to the node are absent from the result.
	FetchFungibleTokenMetadata(ctx context.Context, ids []string) ([]Metadata, error)

	// FetchNFTMetadata returns the on-chain NFT records for the given ids
	FetchNFTMetadata(ctx context.Context, ids []string) ([]NFTInfo, error)

	// FetchNFTDocument loads the JSON document a token URI points to
	FetchNFTDocument(ctx context.Context, uri string) (*NFTDocument, error)
}

// MetadataCache stores resolved metadata of unverified tokens
type MetadataCache interface {
	// GetMultiple returns the cached entries; misses are absent from the map
	GetMultiple(ctx context.Context, ids []string) (map[string]Metadata, error)

	// SetMultiple stores entries with the cache's default TTL
	SetMultiple(ctx context.Context, items []Metadata) error
}
