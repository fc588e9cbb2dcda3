package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"TradeCore/internal/domain/models"
	pkgcache "TradeCore/pkg/cache"
)

const decisionKeyPrefix = "decision"

// CachedDecisions keeps the latest decision per instrument in a cache
// backend (memory or Redis) for the read API.
type CachedDecisions struct {
	cache pkgcache.Service
	ttl   time.Duration
}

func NewCachedDecisions(cache pkgcache.Service, ttl time.Duration) *CachedDecisions {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDecisions{cache: cache, ttl: ttl}
}

func (c *CachedDecisions) Put(ctx context.Context, d *models.Decision) error {
	if d == nil || d.Instrument == "" {
		return fmt.Errorf("decision has no instrument")
	}
	key := pkgcache.GenerateKey(decisionKeyPrefix, d.Instrument)
	return c.cache.Set(ctx, key, d, c.ttl)
}

// Latest returns the newest decision for one instrument, or nil when the
// engine has not decided recently.
func (c *CachedDecisions) Latest(ctx context.Context, instrument string) (*models.Decision, error) {
	var d models.Decision
	key := pkgcache.GenerateKey(decisionKeyPrefix, instrument)
	if err := c.cache.Get(ctx, key, &d); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// All returns the latest decisions for the given instruments, skipping any
// without a cached entry.
func (c *CachedDecisions) All(ctx context.Context, instruments []string) ([]*models.Decision, error) {
	keys := make([]string, len(instruments))
	for i, inst := range instruments {
		keys[i] = pkgcache.GenerateKey(decisionKeyPrefix, inst)
	}

	raw, err := c.cache.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Decision, 0, len(raw))
	for _, key := range keys {
		s, ok := raw[key]
		if !ok {
			continue
		}
		var d models.Decision
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			continue
		}
		out = append(out, &d)
	}
	return out, nil
}
