package asset_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

type fakeTokenList struct {
	items []asset.Metadata
	err   error
	calls atomic.Int32
}

func (f *fakeTokenList) FetchTokenList(_ context.Context) ([]asset.Metadata, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]asset.Metadata, len(f.items))
	copy(out, f.items)
	return out, nil
}

type fakeTypes struct {
	types map[string]asset.Type
	err   error
}

func (f *fakeTypes) GetTokenTypes(_ context.Context, ids []string) (map[string]asset.Type, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]asset.Type)
	for _, id := range ids {
		if t, ok := f.types[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

type fakeNode struct {
	fungible    map[string]asset.Metadata
	nfts        map[string]asset.NFTInfo
	documents   map[string]asset.NFTDocument
	fungibleErr error

	mu             sync.Mutex
	fungibleCalled [][]string
}

func (f *fakeNode) FetchFungibleTokenMetadata(_ context.Context, ids []string) ([]asset.Metadata, error) {
	f.mu.Lock()
	f.fungibleCalled = append(f.fungibleCalled, ids)
	f.mu.Unlock()
	if f.fungibleErr != nil {
		return nil, f.fungibleErr
	}
	var out []asset.Metadata
	for _, id := range ids {
		if m, ok := f.fungible[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeNode) FetchNFTMetadata(_ context.Context, ids []string) ([]asset.NFTInfo, error) {
	var out []asset.NFTInfo
	for _, id := range ids {
		if info, ok := f.nfts[id]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}

func (f *fakeNode) FetchNFTDocument(_ context.Context, uri string) (*asset.NFTDocument, error) {
	doc, ok := f.documents[uri]
	if !ok {
		return nil, errors.New("document not found")
	}
	return &doc, nil
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string]asset.Metadata
	readErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]asset.Metadata)}
}

func (f *fakeCache) GetMultiple(_ context.Context, ids []string) (map[string]asset.Metadata, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]asset.Metadata)
	for _, id := range ids {
		if m, ok := f.items[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeCache) SetMultiple(_ context.Context, items []asset.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range items {
		f.items[m.ID] = m
	}
	return nil
}
