package asset_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
)

func TestVerifiedList_LazyLoad(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{
		{ID: tokenX, Name: "Token X", Symbol: "TX", Decimals: 18},
	}}
	list := asset.NewVerifiedList(provider, time.Hour)

	assert.Equal(t, int32(0), provider.calls.Load())
	_, ok := list.Lookup(tokenX)
	assert.False(t, ok, "Lookup must not trigger a fetch")

	tokens, err := list.Tokens(context.Background())
	require.NoError(t, err)
	require.Contains(t, tokens, tokenX)
	assert.True(t, tokens[tokenX].Verified)
	assert.Equal(t, asset.TypeFungible, tokens[tokenX].Type)

	m, ok := list.Lookup(tokenX)
	require.True(t, ok)
	assert.Equal(t, "TX", m.Symbol)
	assert.Equal(t, 1, list.Len())
}

func TestVerifiedList_FetchesOncePerTTL(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{{ID: tokenX}}}
	list := asset.NewVerifiedList(provider, time.Hour)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list.SetClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		_, err := list.Tokens(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), provider.calls.Load())

	now = now.Add(2 * time.Hour)
	_, err := list.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
	assert.Equal(t, now, list.FetchedAt())
}

func TestVerifiedList_Invalidate(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{{ID: tokenX}}}
	list := asset.NewVerifiedList(provider, time.Hour)

	_, err := list.Tokens(context.Background())
	require.NoError(t, err)

	list.Invalidate()
	assert.True(t, list.FetchedAt().IsZero())

	_, err = list.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestVerifiedList_KeepsStaleSnapshotOnFailure(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{{ID: tokenX, Symbol: "TX"}}}
	list := asset.NewVerifiedList(provider, time.Hour)

	require.NoError(t, list.Refresh(context.Background()))

	provider.err = errors.New("github unreachable")
	list.Invalidate()

	tokens, err := list.Tokens(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrTokenListUnavailable)
	assert.Contains(t, tokens, tokenX, "stale snapshot must still be served")
}

func TestVerifiedList_BacksOffAfterFailure(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{{ID: tokenX, Symbol: "TX"}}}
	list := asset.NewVerifiedList(provider, time.Hour)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list.SetClock(func() time.Time { return now })

	require.NoError(t, list.Refresh(context.Background()))
	assert.Equal(t, int32(1), provider.calls.Load())

	provider.err = errors.New("github unreachable")
	now = now.Add(2 * time.Hour)

	for i := 0; i < 10; i++ {
		tokens, err := list.Tokens(context.Background())
		assert.ErrorIs(t, err, asset.ErrTokenListUnavailable)
		assert.Contains(t, tokens, tokenX)
	}
	assert.Equal(t, int32(2), provider.calls.Load(), "one fetch per backoff window")

	now = now.Add(asset.DefaultRetryBackoff)
	_, err := list.Tokens(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(3), provider.calls.Load())

	provider.err = nil
	now = now.Add(asset.DefaultRetryBackoff)
	_, err = list.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), provider.calls.Load())
	assert.Equal(t, now, list.FetchedAt())
}

func TestVerifiedList_BackoffWithEmptySnapshot(t *testing.T) {
	provider := &fakeTokenList{err: errors.New("github unreachable")}
	list := asset.NewVerifiedList(provider, time.Hour)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list.SetClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		tokens, err := list.Tokens(context.Background())
		assert.ErrorIs(t, err, asset.ErrTokenListUnavailable)
		assert.Empty(t, tokens)
	}
	assert.Equal(t, int32(1), provider.calls.Load())

	// explicit refreshes bypass the backoff
	assert.Error(t, list.Refresh(context.Background()))
	assert.Equal(t, int32(2), provider.calls.Load())

	list.Invalidate()
	_, _ = list.Tokens(context.Background())
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestVerifiedList_SkipsInvalidEntries(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{
		{ID: "not-hex"},
		{ID: asset.NativeID, Symbol: "ALPH"},
		{ID: "  " + "ABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABAB"},
	}}
	list := asset.NewVerifiedList(provider, 0)

	tokens, err := list.Tokens(context.Background())
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
	assert.Contains(t, tokens, "abababababababababababababababababababababababababababababababab")
}

func TestVerifiedList_ConcurrentAccess(t *testing.T) {
	provider := &fakeTokenList{items: []asset.Metadata{{ID: tokenX}}}
	list := asset.NewVerifiedList(provider, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = list.Tokens(context.Background())
			list.Lookup(tokenX)
		}()
	}
	wg.Wait()

	// singleflight collapses overlapping refreshes; sequential stragglers may add a few
	assert.LessOrEqual(t, provider.calls.Load(), int32(20))
	_, ok := list.Lookup(tokenX)
	assert.True(t, ok)
}
