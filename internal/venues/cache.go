package venues

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/fairmeet/internal/metrics"
	"github.com/UnknownOlympus/fairmeet/internal/models"
	"github.com/bluele/gcache"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Cache defaults.
const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = time.Hour
	DefaultShards        = 16
	DefaultShardSize     = 4096
)

// keyPrecision is the number of decimal degrees kept in cache keys.
// Two decimals is about 1.1 km, so nearby stations share one entry per category.
const keyPrecision = 100

// CacheConfig configures the venue cache.
type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	Shards        int
	ShardSize     int          // LRU capacity of every shard
	Clock         gcache.Clock // nil uses the wall clock
}

type cacheEntry struct {
	venues    []models.Venue
	fetchedAt time.Time
}

// Cache memoizes venue searches per rounded location and category.
// Entries live for the TTL, are dropped on read once expired and are swept periodically.
// The key space is split across shards, each guarded by its own lock.
// Provider failures are never stored.
type Cache struct {
	provider      Provider
	shards        []gcache.Cache
	ttl           time.Duration
	sweepInterval time.Duration
	clock         gcache.Clock
	inflight      singleflight.Group
	metrics       *metrics.Metrics
	log           *slog.Logger
}

// NewCache creates a cache in front of provider.
func NewCache(provider Provider, cfg CacheConfig, m *metrics.Metrics, log *slog.Logger) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Shards <= 0 {
		cfg.Shards = DefaultShards
	}
	if cfg.ShardSize <= 0 {
		cfg.ShardSize = DefaultShardSize
	}
	if cfg.Clock == nil {
		cfg.Clock = gcache.NewRealClock()
	}

	shards := make([]gcache.Cache, cfg.Shards)
	for i := range shards {
		shards[i] = gcache.New(cfg.ShardSize).
			LRU().
			Expiration(cfg.TTL).
			Clock(cfg.Clock).
			Build()
	}

	return &Cache{
		provider:      provider,
		shards:        shards,
		ttl:           cfg.TTL,
		sweepInterval: cfg.SweepInterval,
		clock:         cfg.Clock,
		metrics:       m,
		log:           log,
	}
}

// Key builds the cache key for a location, search radius and category.
func Key(coords models.Coordinates, radius int, category models.VenueCategory) string {
	return fmt.Sprintf("%.2f:%.2f:%d:%s", roundCoord(coords.Latitude), roundCoord(coords.Longitude), radius, category)
}

// Lookup returns the venues of the category around coords, from cache when a fresh entry exists.
// Concurrent misses on the same key share one provider call.
func (c *Cache) Lookup(
	ctx context.Context,
	coords models.Coordinates,
	category models.VenueCategory,
	radius int,
) ([]models.Venue, error) {
	if radius <= 0 {
		radius = DefaultRadius
	}
	key := Key(coords, radius, category)
	shard := c.shard(key)

	if value, err := shard.Get(key); err == nil {
		if entry, ok := value.(cacheEntry); ok {
			c.metrics.VenueCacheLookups.WithLabelValues("hit").Inc()
			return slices.Clone(entry.venues), nil
		}
	}
	c.metrics.VenueCacheLookups.WithLabelValues("miss").Inc()

	value, err, _ := c.inflight.Do(key, func() (any, error) {
		found, errSearch := c.provider.Search(ctx, coords, category, radius)
		if errSearch != nil {
			return nil, errSearch
		}
		if found == nil {
			found = []models.Venue{}
		}

		entry := cacheEntry{venues: found, fetchedAt: c.clock.Now()}
		if errSet := shard.Set(key, entry); errSet != nil {
			c.log.WarnContext(ctx, "Failed to store venues in cache", "key", key, "error", errSet)
		}
		return entry, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search venues for %s: %w", key, err)
	}

	entry, _ := value.(cacheEntry)
	return slices.Clone(entry.venues), nil
}

// Counts counts venues around coords for every enabled category, one cached lookup per category.
// Disabled categories count as zero without a lookup. A failed lookup counts as zero for this
// call only and is returned in the joined error.
func (c *Cache) Counts(
	ctx context.Context,
	coords models.Coordinates,
	filters Filters,
	radius int,
) (models.VenueCounts, error) {
	counts := models.NewVenueCounts()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)
	for _, category := range Categories {
		if !filters.Enabled(category) {
			counts.Add(category, 0)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			found, err := c.Lookup(ctx, coords, category, radius)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				counts.Add(category, 0)
				return
			}
			counts.Add(category, len(found))
		}()
	}
	wg.Wait()

	return counts, errors.Join(errs...)
}

// Sweep removes every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.clock.Now()
	removed := 0

	for _, shard := range c.shards {
		for key, value := range shard.GetALL(false) {
			entry, ok := value.(cacheEntry)
			if ok && now.Sub(entry.fetchedAt) <= c.ttl {
				continue
			}
			if shard.Remove(key) {
				removed++
			}
		}
	}

	c.metrics.VenueCacheEvictions.Add(float64(removed))

	return removed
}

// Len returns the number of stored entries. Expired entries count until they are read or swept.
func (c *Cache) Len() int {
	total := 0
	for _, shard := range c.shards {
		total += shard.Len(false)
	}
	return total
}

// Run sweeps expired entries every sweep interval until the context is canceled.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	c.log.InfoContext(ctx, "Venue cache sweeper started", "interval", c.sweepInterval, "ttl", c.ttl)

	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "Venue cache sweeper stopped.")
			return
		case <-ticker.C:
			removed := c.Sweep()
			c.log.DebugContext(ctx, "Venue cache swept", "removed", removed, "remaining", c.Len())
		}
	}
}

func (c *Cache) shard(key string) gcache.Cache {
	return c.shards[xxhash.Sum64String(key)%uint64(len(c.shards))]
}

func roundCoord(v float64) float64 {
	r := math.Round(v*keyPrecision) / keyPrecision
	if r == 0 {
		return 0 // drop negative zero so -0.001 and 0.001 share a key
	}
	return r
}
