package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/metrics"
	"RSSentinel/internal/model"
)

// DefaultCacheTTL matches the dashboard refresh cadence.
const DefaultCacheTTL = 30 * time.Minute

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Errors map[string]error
	Base   float64 // used to synthesise a series for unknown symbols when > 0

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol, period string) (model.PriceSeries, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if err, ok := m.Errors[symbol]; ok {
		return model.PriceSeries{}, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	if m.Base > 0 {
		return generateMockSeries(symbol, m.Base, periodTradingDays(period)), nil
	}
	return model.PriceSeries{}, fmt.Errorf("mock: unknown symbol %s", symbol)
}

// Calls returns how many times symbol was fetched.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func generateMockSeries(symbol string, basePrice float64, count int) model.PriceSeries {
	today := model.Day(time.Now())
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Date:  today.AddDate(0, 0, -(count - i)),
			Close: basePrice * (1 + math.Sin(float64(i)/10)*0.02 + float64(i)*0.0005),
		}
	}
	return model.PriceSeries{Symbol: symbol, Points: points, AsOf: time.Now().UTC()}
}

// Collector fetches price series through an optional TTL cache.
type Collector struct {
	Fetcher Fetcher
	Cache   Cache
	TTL     time.Duration
	Period  string
	Metrics *metrics.Metrics
}

// NewCollector creates a new Collector. A nil cache disables caching.
func NewCollector(fetcher Fetcher, cache Cache, ttl time.Duration, period string) *Collector {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if period == "" {
		period = "2y"
	}
	return &Collector{Fetcher: fetcher, Cache: cache, TTL: ttl, Period: period}
}

func (c *Collector) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s:%s", c.Fetcher.Name(), symbol, c.Period)
}

// Fetch returns the series for symbol, consulting the cache first.
// Cache failures are logged and fall through to the fetcher.
func (c *Collector) Fetch(ctx context.Context, symbol string) (model.PriceSeries, error) {
	if symbol == "" {
		return model.PriceSeries{}, fmt.Errorf("%w: empty symbol", calculator.ErrInvalidParameter)
	}
	key := c.cacheKey(symbol)

	if c.Cache != nil {
		s, ok, err := c.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("[WARN] cache get %s: %v", key, err)
		}
		c.Metrics.CacheHit(ok)
		if ok {
			return s, nil
		}
	}

	start := time.Now()
	s, err := c.Fetcher.FetchDailyCloses(ctx, symbol, c.Period)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), start, err)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, s, c.TTL); err != nil {
			log.Printf("[WARN] cache set %s: %v", key, err)
		}
	}
	return s, nil
}

// FetchAll fetches every symbol concurrently. Successful series are always returned;
// the error joins the per-symbol failures, if any.
func (c *Collector) FetchAll(ctx context.Context, symbols []string) (map[string]model.PriceSeries, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: empty symbol list", calculator.ErrInvalidParameter)
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		out  = make(map[string]model.PriceSeries, len(symbols))
		errs []error
	)
	for _, sym := range uniqueSymbols(symbols) {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			s, err := c.Fetch(ctx, sym)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			out[sym] = s
		}(sym)
	}
	wg.Wait()

	return out, errors.Join(errs...)
}

func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
