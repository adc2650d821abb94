package model

import "time"

// AlignedRow is one date present in both the asset and the benchmark series.
type AlignedRow struct {
	Date       time.Time
	AssetClose float64
	BenchClose float64
}

// AlignedTable is the inner join of two price series by date.
// Rows are strictly ascending by date and every close is finite.
type AlignedTable struct {
	Asset string
	Bench string
	Rows  []AlignedRow
}

func (t *AlignedTable) Len() int { return len(t.Rows) }

func (t *AlignedTable) Dates() []time.Time {
	out := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Date
	}
	return out
}

func (t *AlignedTable) AssetCloses() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.AssetClose
	}
	return out
}

func (t *AlignedTable) BenchCloses() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.BenchClose
	}
	return out
}
