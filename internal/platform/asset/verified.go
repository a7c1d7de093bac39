package asset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTokenListTTL re-fetches the verified list once per day
	DefaultTokenListTTL = 24 * time.Hour

	// DefaultRetryBackoff is how long lazy refreshes pause after a failure
	DefaultRetryBackoff = time.Minute
)

// VerifiedList caches the published verified token list.
//
// The list is loaded lazily on first use and re-fetched once it is older
// than the TTL. A failed refresh keeps serving the previous snapshot, and
// lazy refreshes are not retried until the retry backoff has passed.
type VerifiedList struct {
	provider     TokenListProvider
	ttl          time.Duration
	retryBackoff time.Duration
	now          func() time.Time
	group        singleflight.Group

	mu          sync.RWMutex
	tokens      map[string]Metadata
	fetchedAt   time.Time
	failedAt    time.Time
	lastFailure error
}

// NewVerifiedList creates a verified list cache backed by provider
func NewVerifiedList(provider TokenListProvider, ttl time.Duration) *VerifiedList {
	if ttl <= 0 {
		ttl = DefaultTokenListTTL
	}
	return &VerifiedList{
		provider:     provider,
		ttl:          ttl,
		retryBackoff: DefaultRetryBackoff,
		now:          time.Now,
	}
}

// SetRetryBackoff overrides the pause between failed lazy refreshes
func (v *VerifiedList) SetRetryBackoff(d time.Duration) {
	v.retryBackoff = d
}

// SetClock overrides the time source (useful for testing)
func (v *VerifiedList) SetClock(now func() time.Time) {
	v.now = now
}

// Tokens returns the current snapshot, refreshing it first when stale.
// When the refresh fails the stale snapshot (possibly empty) is returned
// together with the error. Within the retry backoff of a failure the last
// error is returned without contacting the provider.
func (v *VerifiedList) Tokens(ctx context.Context) (map[string]Metadata, error) {
	if !v.isStale() {
		return v.snapshot(), nil
	}
	if err := v.backingOff(); err != nil {
		return v.snapshot(), err
	}

	err := v.Refresh(ctx)
	return v.snapshot(), err
}

// Lookup implements Lookup against the current snapshot without refreshing
func (v *VerifiedList) Lookup(id string) (Metadata, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	m, ok := v.tokens[NormalizeID(id)]
	return m, ok
}

// Refresh fetches the list now. Concurrent callers share one fetch.
func (v *VerifiedList) Refresh(ctx context.Context) error {
	_, err, _ := v.group.Do("refresh", func() (interface{}, error) {
		items, err := v.provider.FetchTokenList(ctx)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrTokenListUnavailable, err)
			// a caller giving up is not a provider failure
			if ctx.Err() == nil {
				v.mu.Lock()
				v.failedAt = v.now()
				v.lastFailure = err
				v.mu.Unlock()
			}
			return nil, err
		}

		tokens := make(map[string]Metadata, len(items))
		for _, m := range items {
			m.ID = NormalizeID(m.ID)
			if ValidateID(m.ID) != nil || IsNative(m.ID) {
				continue
			}
			m.Verified = true
			if m.Type == TypeUnknown {
				m.Type = TypeFungible
			}
			tokens[m.ID] = m
		}

		v.mu.Lock()
		v.tokens = tokens
		v.fetchedAt = v.now()
		v.failedAt = time.Time{}
		v.lastFailure = nil
		v.mu.Unlock()
		return nil, nil
	})
	return err
}

// Invalidate marks the snapshot stale so the next Tokens call re-fetches
// it, even during a retry backoff
func (v *VerifiedList) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fetchedAt = time.Time{}
	v.failedAt = time.Time{}
	v.lastFailure = nil
}

// FetchedAt returns when the snapshot was last loaded (zero if never)
func (v *VerifiedList) FetchedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fetchedAt
}

// Len returns the number of verified tokens in the snapshot
func (v *VerifiedList) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.tokens)
}

func (v *VerifiedList) isStale() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fetchedAt.IsZero() || v.now().Sub(v.fetchedAt) > v.ttl
}

func (v *VerifiedList) backingOff() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.lastFailure == nil || v.now().Sub(v.failedAt) >= v.retryBackoff {
		return nil
	}
	return v.lastFailure
}

func (v *VerifiedList) snapshot() map[string]Metadata {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]Metadata, len(v.tokens))
	for id, m := range v.tokens {
		out[id] = m
	}
	return out
}
