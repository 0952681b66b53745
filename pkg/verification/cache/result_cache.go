package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ai-verification-be/pkg/verification/fingerprint"
	"ai-verification-be/pkg/verification/schema"
)

// DefaultTTL is how long a computed score stays valid
const DefaultTTL = 24 * time.Hour

// Scope controls how cache keys are partitioned
type Scope string

const (
	// ScopeSubmitter gives every submitter its own entry per fingerprint
	ScopeSubmitter Scope = "submitter"
	// ScopeGlobal shares one entry per fingerprint across submitters
	ScopeGlobal Scope = "global"
)

// Key identifies one cached score
type Key struct {
	Submitter   string
	Fingerprint fingerprint.Fingerprint
}

// ResultCache maps (submitter, fingerprint) to a final score.
// It gives no mutual exclusion: concurrent misses on one key all compute.
type ResultCache struct {
	store Store
	ttl   time.Duration
	scope Scope
}

func NewResultCache(store Store, ttl time.Duration, scope Scope) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if scope != ScopeGlobal {
		scope = ScopeSubmitter
	}
	return &ResultCache{store: store, ttl: ttl, scope: scope}
}

func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// StoreKey renders the backend key for k
func (c *ResultCache) StoreKey(k Key) string {
	if c.scope == ScopeGlobal {
		return "global:" + k.Fingerprint.String()
	}
	return k.Submitter + ":" + k.Fingerprint.String()
}

// Get returns the cached Evaluation for k. The original reason is not kept,
// hits always carry schema.ReasonCached.
func (c *ResultCache) Get(ctx context.Context, k Key) (schema.Evaluation, bool, error) {
	raw, found, err := c.store.Get(ctx, c.StoreKey(k))
	if err != nil || !found {
		return schema.Evaluation{}, false, err
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return schema.Evaluation{}, false, fmt.Errorf("corrupt cache entry %q: %w", c.StoreKey(k), err)
	}
	return schema.Evaluation{Score: score, Reason: schema.ReasonCached}, true, nil
}

// Put stores score under k for the configured TTL, overwriting any entry
func (c *ResultCache) Put(ctx context.Context, k Key, score float64) error {
	return c.store.SetWithTTL(ctx, c.StoreKey(k), strconv.FormatFloat(score, 'f', -1, 64), c.ttl)
}
