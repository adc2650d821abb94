package calculator

import (
	"math"

	"RSSentinel/internal/model"
)

// RelativeStrength returns the daily simple-return differential asset minus bench:
//
//	RS[i] = (asset[i]/asset[i-1] - 1) - (bench[i]/bench[i-1] - 1)
//
// RS[0] is NaN, and so is any position whose previous close is zero on either side.
func RelativeStrength(asset, bench []float64) []float64 {
	n := len(asset)
	if len(bench) < n {
		n = len(bench)
	}
	rs := nanSlice(n)
	for i := 1; i < n; i++ {
		a0, b0 := asset[i-1], bench[i-1]
		if a0 == 0 || b0 == 0 {
			continue
		}
		rs[i] = (asset[i]/a0 - 1) - (bench[i]/b0 - 1)
	}
	return rs
}

// TableRS computes RelativeStrength over the columns of an aligned table.
func TableRS(t *model.AlignedTable) []float64 {
	return RelativeStrength(t.AssetCloses(), t.BenchCloses())
}

// RatioPercent returns (asset/bench - 1) * 100 for every row; a zero bench close yields NaN.
func RatioPercent(t *model.AlignedTable) []float64 {
	out := nanSlice(t.Len())
	for i, r := range t.Rows {
		if r.BenchClose == 0 {
			continue
		}
		out[i] = (r.AssetClose/r.BenchClose - 1) * 100
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
