package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mselser95/packs-bot/pkg/cache"
)

// CachedLooker wraps a Looker with a TTL cache keyed by bet id. Only found
// bets are cached; errors always go back to the remote.
type CachedLooker struct {
	looker Looker
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedLooker creates a cached looker. A nil cache disables caching.
func NewCachedLooker(looker Looker, c cache.Cache, ttl time.Duration) *CachedLooker {
	return &CachedLooker{
		looker: looker,
		cache:  c,
		ttl:    ttl,
	}
}

// Lookup returns a cached bet or fetches and caches it.
func (c *CachedLooker) Lookup(ctx context.Context, betID string, accessToken string) (*Bet, error) {
	betID = strings.TrimSpace(betID)
	cacheKey := fmt.Sprintf("bet:%s", betID)

	if c.cache != nil && betID != "" {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if bet, ok := cached.(*Bet); ok {
				LookupCacheHitsTotal.Inc()
				return bet, nil
			}
		}
		LookupCacheMissesTotal.Inc()
	}

	bet, err := c.looker.Lookup(ctx, betID, accessToken)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, bet, c.ttl)
	}

	return bet, nil
}
