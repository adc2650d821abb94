package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"RSSentinel/internal/model"
)

// Cache stores fetched series for a bounded time. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (model.PriceSeries, bool, error)
	Set(ctx context.Context, key string, s model.PriceSeries, ttl time.Duration) error
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	series    model.PriceSeries
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (model.PriceSeries, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return model.PriceSeries{}, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return model.PriceSeries{}, false, nil
	}
	return e.series, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, s model.PriceSeries, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{series: s, expiresAt: c.now().Add(ttl)}
	return nil
}

// RedisCache stores series as JSON with a Redis-side TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: "rssentinel:series:",
	}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (model.PriceSeries, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PriceSeries{}, false, nil
	}
	if err != nil {
		return model.PriceSeries{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	s, err := decodeSeries(data)
	if err != nil {
		return model.PriceSeries{}, false, err
	}
	return s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, s model.PriceSeries, ttl time.Duration) error {
	data, err := encodeSeries(s)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// cachedSeries is the JSON form of a series. NaN closes are stored as null.
type cachedSeries struct {
	Symbol string     `json:"symbol"`
	Dates  []string   `json:"dates"`
	Close  []*float64 `json:"close"`
	AsOf   time.Time  `json:"as_of"`
}

func encodeSeries(s model.PriceSeries) ([]byte, error) {
	cs := cachedSeries{Symbol: s.Symbol, Dates: s.Dates(), Close: make([]*float64, s.Len()), AsOf: s.AsOf}
	for i, p := range s.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		v := p.Close
		cs.Close[i] = &v
	}
	data, err := json.Marshal(cs)
	if err != nil {
		return nil, fmt.Errorf("encode series %s: %w", s.Symbol, err)
	}
	return data, nil
}

func decodeSeries(data []byte) (model.PriceSeries, error) {
	var cs cachedSeries
	if err := json.Unmarshal(data, &cs); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode cached series: %w", err)
	}
	closes := make([]float64, len(cs.Close))
	for i, c := range cs.Close {
		if c == nil {
			closes[i] = math.NaN()
		} else {
			closes[i] = *c
		}
	}
	return model.NewPriceSeries(cs.Symbol, cs.Dates, closes, cs.AsOf)
}
