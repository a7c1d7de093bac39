package asset_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
)

func newResolver(list *fakeTokenList, cache asset.MetadataCache, types asset.TokenTypeProvider, node *fakeNode) *asset.Resolver {
	return asset.NewResolver(
		asset.NewVerifiedList(list, time.Hour),
		cache,
		types,
		node,
		2,
		testLogger(),
	)
}

func TestResolver_VerifiedFirst(t *testing.T) {
	list := &fakeTokenList{items: []asset.Metadata{{ID: tokenX, Symbol: "TX", Decimals: 6}}}
	node := &fakeNode{}
	r := newResolver(list, nil, nil, node)

	catalog, err := r.Resolve(context.Background(), []string{tokenX, tokenX, asset.NativeID, ""})
	require.NoError(t, err)

	require.Len(t, catalog, 1)
	assert.True(t, catalog[tokenX].Verified)
	assert.Empty(t, node.fungibleCalled, "verified hits must not reach the node")
}

func TestResolver_CacheThenNode(t *testing.T) {
	cache := newFakeCache()
	cache.items[tokenY] = asset.Metadata{ID: tokenY, Symbol: "CY", Type: asset.TypeFungible}

	node := &fakeNode{fungible: map[string]asset.Metadata{
		tokenZ: {ID: tokenZ, Name: "Zed", Symbol: "ZED", Decimals: 4},
	}}
	r := newResolver(&fakeTokenList{}, cache, nil, node)

	catalog, err := r.Resolve(context.Background(), []string{tokenY, tokenZ})
	require.NoError(t, err)

	assert.Equal(t, "CY", catalog[tokenY].Symbol)
	assert.Equal(t, "ZED", catalog[tokenZ].Symbol)
	assert.False(t, catalog[tokenZ].Verified)
	assert.Equal(t, asset.TypeFungible, catalog[tokenZ].Type)

	require.Len(t, node.fungibleCalled, 1)
	assert.Equal(t, []string{tokenZ}, node.fungibleCalled[0])

	// fetched metadata is written back to the cache
	assert.Contains(t, cache.items, tokenZ)
}

func TestResolver_NonFungibleDocuments(t *testing.T) {
	node := &fakeNode{
		nfts: map[string]asset.NFTInfo{
			tokenX: {ID: tokenX, TokenURI: "https://nft.example/1.json"},
			tokenY: {ID: tokenY},
		},
		documents: map[string]asset.NFTDocument{
			"https://nft.example/1.json": {Name: "Punk #1", Image: "https://nft.example/1.png"},
		},
	}
	types := &fakeTypes{types: map[string]asset.Type{tokenX: asset.TypeNonFungible, tokenY: asset.TypeNonFungible}}
	r := newResolver(&fakeTokenList{}, nil, types, node)

	catalog, err := r.Resolve(context.Background(), []string{tokenX, tokenY})
	require.NoError(t, err)

	assert.Equal(t, "Punk #1", catalog[tokenX].Name)
	assert.Equal(t, "https://nft.example/1.png", catalog[tokenX].LogoURI)
	assert.Equal(t, asset.TypeNonFungible, catalog[tokenX].Type)
	assert.Equal(t, asset.TypeNonFungible, catalog[tokenY].Type)
	assert.Empty(t, catalog[tokenY].Name)
	assert.Empty(t, node.fungibleCalled)
}

func TestResolver_UpstreamFailuresDegrade(t *testing.T) {
	cache := newFakeCache()
	cache.readErr = errors.New("redis down")
	node := &fakeNode{fungibleErr: errors.New("node down")}
	types := &fakeTypes{err: errors.New("explorer down")}
	list := &fakeTokenList{err: errors.New("list down")}

	r := newResolver(list, cache, types, node)

	catalog, err := r.Resolve(context.Background(), []string{tokenX})
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestResolver_CanceledContext(t *testing.T) {
	r := newResolver(&fakeTokenList{}, nil, nil, &fakeNode{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, []string{tokenX})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolver_Get(t *testing.T) {
	node := &fakeNode{fungible: map[string]asset.Metadata{tokenZ: {ID: tokenZ, Symbol: "ZED"}}}
	r := newResolver(&fakeTokenList{}, nil, nil, node)

	native, err := r.Get(context.Background(), asset.NativeID)
	require.NoError(t, err)
	assert.Equal(t, "ALPH", native.Symbol)

	m, err := r.Get(context.Background(), tokenZ)
	require.NoError(t, err)
	assert.Equal(t, "ZED", m.Symbol)

	_, err = r.Get(context.Background(), tokenX)
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)

	_, err = r.Get(context.Background(), "bogus")
	assert.ErrorIs(t, err, asset.ErrInvalidTokenID)
}
