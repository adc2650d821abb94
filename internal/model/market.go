package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire.
const DateLayout = "2006-01-02"

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the daily closes of one symbol as retrieved at AsOf.
// Points are not required to be sorted or unique; alignment takes care of that.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
	AsOf   time.Time
}

// NewPriceSeries builds a series from parallel ISO date / close slices.
func NewPriceSeries(symbol string, dates []string, closes []float64, asOf time.Time) (PriceSeries, error) {
	if len(dates) != len(closes) {
		return PriceSeries{}, fmt.Errorf("series %s: %d dates but %d closes", symbol, len(dates), len(closes))
	}
	points := make([]PricePoint, len(dates))
	for i, d := range dates {
		t, err := ParseDate(d)
		if err != nil {
			return PriceSeries{}, fmt.Errorf("series %s: %w", symbol, err)
		}
		points[i] = PricePoint{Date: t, Close: closes[i]}
	}
	return PriceSeries{Symbol: symbol, Points: points, AsOf: asOf}, nil
}

// Len returns the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Dates returns the point dates formatted as ISO-8601.
func (s PriceSeries) Dates() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date.Format(DateLayout)
	}
	return out
}

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// ParseDate parses an ISO-8601 calendar date into a UTC midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
