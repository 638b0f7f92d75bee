// Package memo keeps recently generated curves so repeated renders of the
// same entry skip the pity fold.
package memo

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xtding233/dropcalc/internal/curve"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 128

// CurveCache is a bounded LRU of generated curves keyed by curve.Key.
type CurveCache struct {
	lru    *lru.Cache[curve.Key, []curve.Point]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCurveCache creates a cache holding at most size curves.
func NewCurveCache(size int) (*CurveCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[curve.Key, []curve.Point](size)
	if err != nil {
		return nil, fmt.Errorf("create curve cache: %w", err)
	}
	return &CurveCache{lru: c}, nil
}

// Curve returns the cached curve for o, generating and storing it on a
// miss. Failed generations are not cached.
func (c *CurveCache) Curve(o curve.Options) ([]curve.Point, error) {
	key := o.Key()
	if pts, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return pts, nil
	}
	c.misses.Add(1)
	pts, err := curve.GenerateCurve(o)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, pts)
	return pts, nil
}

// Purge drops every cached curve, e.g. after the catalog changed.
func (c *CurveCache) Purge() { c.lru.Purge() }

// Len returns the number of cached curves.
func (c *CurveCache) Len() int { return c.lru.Len() }

// Stats returns the hit and miss counters.
func (c *CurveCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
