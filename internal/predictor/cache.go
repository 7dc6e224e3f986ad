// Package predictor provides caching for model predictions.
package predictor

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/metrics"
	"github.com/yourusername/owl-tennis/internal/models"
)

// cacheKey uniquely identifies a prediction request. The as-of date is part
// of the key: the same match asked at different cutoffs can legitimately
// produce different answers.
type cacheKey struct {
	EventKey string
	ModelID  string
	AsOf     time.Time
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.ModelID, k.EventKey, k.AsOf.Format(time.RFC3339))
}

// CachedPredictor wraps a predictor with TTL-bounded in-memory caching.
type CachedPredictor struct {
	inner  Predictor
	cache  *cache.Cache
	ttl    time.Duration
	logger *logrus.Logger

	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewCachedPredictor creates a caching decorator around a predictor.
func NewCachedPredictor(inner Predictor, ttl time.Duration, logger *logrus.Logger) *CachedPredictor {
	return &CachedPredictor{
		inner:  inner,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
		logger: logger,
	}
}

// ModelID returns the wrapped predictor's model identifier.
func (c *CachedPredictor) ModelID() string {
	return c.inner.ModelID()
}

// Predict serves from cache when possible and delegates on miss.
func (c *CachedPredictor) Predict(ctx context.Context, match *models.Match, asOf time.Time) (*Prediction, error) {
	key := cacheKey{EventKey: match.EventKey, ModelID: c.inner.ModelID(), AsOf: asOf}

	if cached, found := c.cache.Get(key.String()); found {
		if pred, ok := cached.(*Prediction); ok {
			c.recordHit()
			return pred, nil
		}
	}
	c.recordMiss()

	pred, err := c.inner.Predict(ctx, match, asOf)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key.String(), pred, c.ttl)
	return pred, nil
}

// Clear drops all cached predictions. Called after a ratings rebuild, which
// invalidates everything derived from the old history.
func (c *CachedPredictor) Clear() {
	c.cache.Flush()
}

// Stats returns hit and miss counts with the hit ratio.
func (c *CachedPredictor) Stats() (hits, misses uint64, hitRatio float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hitCount + c.missCount
	if total == 0 {
		return c.hitCount, c.missCount, 0
	}
	return c.hitCount, c.missCount, float64(c.hitCount) / float64(total)
}

func (c *CachedPredictor) recordHit() {
	c.mu.Lock()
	c.hitCount++
	c.publishRatioLocked()
	c.mu.Unlock()
}

func (c *CachedPredictor) recordMiss() {
	c.mu.Lock()
	c.missCount++
	c.publishRatioLocked()
	c.mu.Unlock()
}

func (c *CachedPredictor) publishRatioLocked() {
	total := c.hitCount + c.missCount
	if total == 0 {
		return
	}
	metrics.UpdateCacheHitRatio(float64(c.hitCount) / float64(total))
}
