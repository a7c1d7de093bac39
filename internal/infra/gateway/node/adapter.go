package node

import (
	"context"
	"encoding/hex"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
)

// Adapter adapts the node client to asset.NodeMetadataProvider
type Adapter struct {
	client *Client
}

var _ asset.NodeMetadataProvider = (*Adapter)(nil)

// NewAdapter creates a new node adapter
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// FetchFungibleTokenMetadata returns decoded metadata for fungible tokens
func (a *Adapter) FetchFungibleTokenMetadata(ctx context.Context, ids []string) ([]asset.Metadata, error) {
	items, err := a.client.GetFungibleMetadata(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]asset.Metadata, 0, len(items))
	for _, item := range items {
		m := asset.Metadata{
			ID:       asset.NormalizeID(item.ID),
			Name:     DecodeHexString(item.Name),
			Symbol:   DecodeHexString(item.Symbol),
			Decimals: item.Decimals,
			Type:     asset.TypeFungible,
		}
		if m.Validate() != nil {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

// FetchNFTMetadata returns the token URI and collection of each NFT
func (a *Adapter) FetchNFTMetadata(ctx context.Context, ids []string) ([]asset.NFTInfo, error) {
	items, err := a.client.GetNFTMetadata(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]asset.NFTInfo, 0, len(items))
	for _, item := range items {
		result = append(result, asset.NFTInfo{
			ID:           asset.NormalizeID(item.ID),
			TokenURI:     item.TokenURI,
			CollectionID: item.CollectionID,
		})
	}
	return result, nil
}

// FetchNFTDocument fetches the document behind a token URI
func (a *Adapter) FetchNFTDocument(ctx context.Context, uri string) (*asset.NFTDocument, error) {
	doc, err := a.client.GetNFTDocument(ctx, uri)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return &asset.NFTDocument{}, nil
	}
	return &asset.NFTDocument{
		Name:        doc.Name,
		Description: doc.Description,
		Image:       doc.Image,
	}, nil
}

// DecodeHexString decodes a hex-encoded UTF-8 string, returning the input
// unchanged when it is not valid hex
func DecodeHexString(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return s
	}
	return string(b)
}
