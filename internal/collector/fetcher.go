package collector

import (
	"context"

	"RSSentinel/internal/model"
)

// Fetcher defines the interface for fetching daily close series.
type Fetcher interface {
	// FetchDailyCloses returns the daily closes of symbol over a Yahoo-style period ("6mo", "1y", "2y").
	FetchDailyCloses(ctx context.Context, symbol, period string) (model.PriceSeries, error)
	Name() string
}

// periodTradingDays converts a Yahoo-style period into an approximate trading-day count.
func periodTradingDays(period string) int {
	switch period {
	case "1mo":
		return 22
	case "3mo":
		return 66
	case "6mo":
		return 126
	case "1y":
		return 252
	case "5y":
		return 1260
	default:
		return 504
	}
}
