package oidc

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
)

const (
	defaultMaxStale   = 15 * time.Minute
	defaultMinRefresh = 10 * time.Second
)

type keySetSnapshot struct {
	set       domain.KeySet
	fetchedAt time.Time
}

// CachedKeySet serves a key set from memory for ttl and refreshes through
// source afterwards. A failed refresh keeps serving the last good set until
// ttl+maxStale has elapsed. A ttl of zero disables caching.
type CachedKeySet struct {
	source   domain.KeySetProvider
	ttl      time.Duration
	maxStale time.Duration
	// minRefresh bounds how often a kid miss may force a refetch.
	minRefresh time.Duration
	now        func() time.Time

	snapshot atomic.Pointer[keySetSnapshot]
	group    singleflight.Group
}

func NewCachedKeySet(source domain.KeySetProvider, ttl, maxStale time.Duration) *CachedKeySet {
	if maxStale < 0 {
		maxStale = defaultMaxStale
	}
	return &CachedKeySet{
		source:     source,
		ttl:        ttl,
		maxStale:   maxStale,
		minRefresh: defaultMinRefresh,
		now:        time.Now,
	}
}

func (c *CachedKeySet) KeySet(ctx context.Context) (domain.KeySet, error) {
	if c.ttl <= 0 {
		return c.source.KeySet(ctx)
	}
	snap := c.snapshot.Load()
	if snap != nil && c.now().Before(snap.fetchedAt.Add(c.ttl)) {
		return snap.set, nil
	}
	return c.refresh(ctx, snap)
}

// Refresh refetches the key set unless the current one is younger than the
// minimum refresh interval. Verifiers call it on a kid miss.
func (c *CachedKeySet) Refresh(ctx context.Context) (domain.KeySet, error) {
	if c.ttl <= 0 {
		return c.source.KeySet(ctx)
	}
	snap := c.snapshot.Load()
	if snap != nil && c.now().Before(snap.fetchedAt.Add(c.minRefresh)) {
		return snap.set, nil
	}
	return c.refresh(ctx, snap)
}

// refresh shares one fetch between concurrent callers. The fetch is detached
// from the cancellation of the caller that started it; the provider timeout
// still bounds it. Each caller stops waiting when its own ctx is done.
func (c *CachedKeySet) refresh(ctx context.Context, prev *keySetSnapshot) (domain.KeySet, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("keyset", func() (any, error) {
		if cur := c.snapshot.Load(); cur != nil && cur != prev {
			return cur.set, nil
		}
		set, err := c.source.KeySet(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.snapshot.Store(&keySetSnapshot{set: set, fetchedAt: c.now()})
		return set, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return domain.KeySet{}, ctx.Err()
	}
	err := res.Err
	if err == nil {
		return res.Val.(domain.KeySet), nil
	}
	if prev != nil && c.now().Before(prev.fetchedAt.Add(c.ttl+c.maxStale)) {
		logging.Ctx(ctx).Warn().Err(err).Time("fetched_at", prev.fetchedAt).Msg("jwks refresh failed, serving stale key set")
		return prev.set, nil
	}
	return domain.KeySet{}, err
}
