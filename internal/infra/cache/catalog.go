// Package cache owns the single in-memory catalog snapshot. It is not a
// general-purpose cache: one collection, one TTL, rebuilt from nothing on
// every process restart.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"
	"github.com/lpj-studios/shop-assistant-go/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Catalog caches the product collection fetched from the storefront API.
//
// The cache favors availability over freshness: any existing snapshot,
// however stale, is preferred over making a user-facing request wait on an
// upstream round trip. The snapshot slice is replaced atomically under the
// mutex and never mutated in place; callers must treat it as read-only.
type Catalog struct {
	fetcher port.CatalogFetcher
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger

	group singleflight.Group

	mu         sync.RWMutex
	products   []domain.Product
	fetchedAt  time.Time
	refreshing bool
}

// NewCatalog creates the catalog cache. It starts empty; call WarmUp to
// kick off the initial load.
func NewCatalog(fetcher port.CatalogFetcher, ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// WarmUp starts the initial catalog load in the background so the first
// real chat request joins an in-flight fetch instead of starting its own.
func (c *Catalog) WarmUp() {
	go func() {
		start := time.Now()
		products, err := c.Products(context.Background())
		if err != nil {
			c.logger.Warn("catalog warm-up failed",
				zap.Duration("took", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		c.logger.Info("catalog ready",
			zap.Int("products", len(products)),
			zap.Duration("took", time.Since(start)),
		)
	}()
}

// Loaded reports whether a snapshot has ever been obtained.
// Used by the readiness probe.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products) > 0
}

// Snapshot returns the current collection together with its fetch time,
// without triggering a refresh.
func (c *Catalog) Snapshot() domain.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CatalogSnapshot{Products: c.products, FetchedAt: c.fetchedAt}
}

// Products returns as fresh a collection as is available without making the
// caller wait longer than necessary:
//
//  1. fresh snapshot (age ≤ TTL) → returned immediately;
//  2. expired (or empty) and no refresh in flight → this caller runs the
//     fetch; on failure an existing stale snapshot is served instead, and
//     only when no data has ever been obtained the call fails with
//     *domain.ErrCatalogUnavailable;
//  3. refresh already in flight and a stale snapshot exists → the stale
//     snapshot is returned immediately, never blocking behind someone
//     else's refresh;
//  4. refresh in flight and no snapshot yet (cold start) → the caller
//     blocks on the shared flight until the first fetch completes.
//
// At most one upstream fetch is in flight at any time.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	products := c.products
	age := time.Since(c.fetchedAt)
	refreshing := c.refreshing
	c.mu.RUnlock()

	if len(products) > 0 && age <= c.ttl {
		c.metrics.IncrCacheRead("hit")
		return products, nil
	}

	if refreshing && len(products) > 0 {
		c.logger.Debug("catalog refresh in flight, serving stale snapshot",
			zap.Int("products", len(products)),
			zap.Duration("age", age),
		)
		c.metrics.IncrCacheRead("stale")
		return products, nil
	}

	c.metrics.IncrCacheRead("miss")

	// DoChan (not Do) so the fetch runs in its own goroutine: an abandoned
	// caller stops waiting, but the refresh itself always runs to completion.
	ch := c.group.DoChan("catalog", c.refresh)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// Stale-on-error fallback.
			c.mu.RLock()
			fallback := c.products
			c.mu.RUnlock()
			if len(fallback) > 0 {
				c.logger.Warn("catalog refresh failed, serving stale snapshot",
					zap.Int("products", len(fallback)),
					zap.Error(res.Err),
				)
				c.metrics.IncrCacheRead("stale")
				return fallback, nil
			}
			return nil, &domain.ErrCatalogUnavailable{Err: res.Err}
		}
		return res.Val.([]domain.Product), nil
	}
}

// refresh performs one upstream fetch and swaps in the new collection.
// It runs on a background context: caller cancellation never aborts it.
// The refreshing flag is cleared by defer on every path.
func (c *Catalog) refresh() (any, error) {
	c.setRefreshing(true)
	defer c.setRefreshing(false)

	start := time.Now()
	products, err := c.fetcher.FetchAll(context.Background())
	if err != nil {
		c.metrics.IncrCatalogRefresh("failure")
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}

	c.mu.Lock()
	c.products = products
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.metrics.IncrCatalogRefresh("success")
	c.metrics.SetCatalogProducts(len(products))
	c.logger.Info("catalog refreshed",
		zap.Int("products", len(products)),
		zap.Duration("took", time.Since(start)),
	)
	return products, nil
}

func (c *Catalog) setRefreshing(v bool) {
	c.mu.Lock()
	c.refreshing = v
	c.mu.Unlock()
}
