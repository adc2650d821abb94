package calculator

import (
	"math"
	"sort"
	"time"

	"RSSentinel/internal/model"
)

// DefaultMinRows is the minimum number of aligned rows needed before an RS SMA is trusted.
const DefaultMinRows = 80

// Align inner-joins asset and bench on calendar date.
// Each input is deduplicated by date (first occurrence wins) before the join, rows with a
// non-finite close on either side are dropped, and the result is sorted ascending.
// A minRows <= 0 disables the row floor.
func Align(asset, bench model.PriceSeries, minRows int) (*model.AlignedTable, error) {
	benchByDate := make(map[time.Time]float64, len(bench.Points))
	for _, p := range bench.Points {
		d := model.Day(p.Date)
		if _, seen := benchByDate[d]; !seen {
			benchByDate[d] = p.Close
		}
	}

	seen := make(map[time.Time]struct{}, len(asset.Points))
	rows := make([]model.AlignedRow, 0, len(asset.Points))
	for _, p := range asset.Points {
		d := model.Day(p.Date)
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}

		b, ok := benchByDate[d]
		if !ok || !isFinite(p.Close) || !isFinite(b) {
			continue
		}
		rows = append(rows, model.AlignedRow{Date: d, AssetClose: p.Close, BenchClose: b})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	if minRows > 0 && len(rows) < minRows {
		return nil, &InsufficientDataError{Rows: len(rows), Required: minRows}
	}
	return &model.AlignedTable{Asset: asset.Symbol, Bench: bench.Symbol, Rows: rows}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
