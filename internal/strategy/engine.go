package strategy

import (
	"fmt"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/model"
)

// DefaultWindow is the RS smoothing length.
const DefaultWindow = 50

// Params configures a pair evaluation.
type Params struct {
	Window     int
	YellowBand float64
	MinRows    int
}

// DefaultParams returns SMA(50), a 0.02% yellow band and an 80-row floor.
func DefaultParams() Params {
	return Params{Window: DefaultWindow, YellowBand: DefaultYellowBand, MinRows: calculator.DefaultMinRows}
}

// Evaluation carries every intermediate of the pair pipeline.
type Evaluation struct {
	Table    *model.AlignedTable
	RS       []float64
	Smoothed []float64
	Result   model.StatusResult
}

// Evaluate runs align -> RS -> SMA -> classify for one asset against its benchmark.
// A *calculator.InsufficientDataError is returned when alignment leaves too few rows.
func Evaluate(asset, bench model.PriceSeries, p Params) (*Evaluation, error) {
	if p.Window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", calculator.ErrInvalidParameter, p.Window)
	}
	if p.YellowBand < 0 {
		return nil, fmt.Errorf("%w: yellow band must not be negative, got %g", calculator.ErrInvalidParameter, p.YellowBand)
	}

	// Step a: align
	table, err := calculator.Align(asset, bench, p.MinRows)
	if err != nil {
		return nil, err
	}

	// Step b: daily return differential
	rs := calculator.TableRS(table)

	// Step c: smooth
	smoothed, err := calculator.SMA(rs, p.Window)
	if err != nil {
		return nil, err
	}

	// Step d: classify the last valid value
	result := StatusFromRSSMAWindow(calculator.LastNonNaN(smoothed), p.YellowBand, p.Window)

	return &Evaluation{Table: table, RS: rs, Smoothed: smoothed, Result: result}, nil
}
