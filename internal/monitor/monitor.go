// Package monitor is the boundary between data acquisition and the pure indicator core.
// Every fetch failure is converted into an UNKNOWN report here so it never reaches the core.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/collector"
	"RSSentinel/internal/metrics"
	"RSSentinel/internal/model"
	"RSSentinel/internal/strategy"
)

// PairReport is everything a display needs for one asset/benchmark pair.
// Exactly one of Evaluation, Insufficient or FetchErr describes the outcome.
type PairReport struct {
	Asset        string
	Bench        string
	AsOf         time.Time
	Params       strategy.Params
	Evaluation   *strategy.Evaluation
	Insufficient *calculator.InsufficientDataError
	FetchErr     string
}

// Status returns the headline status; insufficient data and fetch failures report UNKNOWN.
func (r *PairReport) Status() model.StatusResult {
	switch {
	case r.Evaluation != nil:
		return r.Evaluation.Result
	case r.Insufficient != nil:
		return model.StatusResult{
			Status:    model.StatusUnknown,
			Reason:    fmt.Sprintf("Not enough aligned rows (%d)", r.Insufficient.Rows),
			LastValue: math.NaN(),
		}
	default:
		return model.StatusResult{Status: model.StatusUnknown, Reason: r.FetchErr, LastValue: math.NaN()}
	}
}

// SectorStatus is one constituent of the rotation overview.
type SectorStatus struct {
	Symbol string
	Result model.StatusResult
}

// CreditReport wraps the credit-spread proxy outcome.
type CreditReport struct {
	High       string
	Low        string
	Evaluation *strategy.CreditEvaluation
	Result     model.StatusResult
}

// RotationReport is the sector rotation overview plus the credit companion signal.
type RotationReport struct {
	Bench   string
	AsOf    time.Time
	Sectors []SectorStatus
	Credit  CreditReport
	Overall model.StatusResult
}

// Monitor evaluates pairs and rotation overviews from fetched series.
type Monitor struct {
	Collector *collector.Collector
	Params    strategy.Params
	Credit    strategy.CreditParams
	Metrics   *metrics.Metrics

	// Pairs whose last RS SMA is exported as a gauge. Written only before serving.
	tracked map[pairKey]struct{}
}

type pairKey struct{ asset, bench string }

// NewMonitor creates a Monitor.
func NewMonitor(col *collector.Collector, params strategy.Params, credit strategy.CreditParams) *Monitor {
	return &Monitor{Collector: col, Params: params, Credit: credit, tracked: make(map[pairKey]struct{})}
}

// Track exports the last RS SMA of asset/bench as a labelled gauge.
// Untracked pairs (ad-hoc API queries) are evaluated but never create a metric series.
// Must be called before the Monitor is shared between goroutines.
func (m *Monitor) Track(asset, bench string) {
	if m.tracked == nil {
		m.tracked = make(map[pairKey]struct{})
	}
	m.tracked[pairKey{asset, bench}] = struct{}{}
}

func (m *Monitor) isTracked(asset, bench string) bool {
	_, ok := m.tracked[pairKey{asset, bench}]
	return ok
}

// EvaluateSeries runs the core pipeline on already-fetched series.
// Only invalid parameters are returned as errors; insufficient data lands in the report.
func EvaluateSeries(asset, bench model.PriceSeries, p strategy.Params) (*PairReport, error) {
	report := &PairReport{Asset: asset.Symbol, Bench: bench.Symbol, AsOf: asset.AsOf, Params: p}
	ev, err := strategy.Evaluate(asset, bench, p)
	var ide *calculator.InsufficientDataError
	switch {
	case err == nil:
		report.Evaluation = ev
	case errors.As(err, &ide):
		report.Insufficient = ide
	default:
		return nil, err
	}
	return report, nil
}

// EvaluateSymbols evaluates symbols[0] against symbols[1].
func (m *Monitor) EvaluateSymbols(ctx context.Context, symbols []string) (*PairReport, error) {
	if len(symbols) < 2 {
		return nil, fmt.Errorf("%w: a pair needs 2 symbols, got %d", calculator.ErrInvalidParameter, len(symbols))
	}
	return m.EvaluatePair(ctx, symbols[0], symbols[1])
}

// EvaluatePair fetches both series and evaluates asset against bench.
func (m *Monitor) EvaluatePair(ctx context.Context, asset, bench string) (*PairReport, error) {
	if asset == "" || bench == "" {
		return nil, fmt.Errorf("%w: asset and bench are required", calculator.ErrInvalidParameter)
	}
	start := time.Now()
	defer m.Metrics.ObserveEvaluate(start)

	series, err := m.Collector.FetchAll(ctx, []string{asset, bench})
	return m.evaluateFetched(asset, bench, series, err)
}

// evaluateFetched evaluates asset against bench from an already fetched symbol map.
// fetchErr explains any symbol missing from series.
func (m *Monitor) evaluateFetched(asset, bench string, series map[string]model.PriceSeries, fetchErr error) (*PairReport, error) {
	a, okA := series[asset]
	b, okB := series[bench]
	if !okA || !okB {
		log.Printf("[WARN] pair %s/%s fetch failed: %v", asset, bench, fetchErr)
		report := &PairReport{Asset: asset, Bench: bench, AsOf: time.Now().UTC(), Params: m.Params,
			FetchErr: fmt.Sprintf("Live data fetch failed: %v", fetchErr)}
		m.Metrics.ObserveStatus("pair", string(model.StatusUnknown))
		return report, nil
	}

	report, err := EvaluateSeries(a, b, m.Params)
	if err != nil {
		return nil, err
	}
	if report.Insufficient != nil {
		log.Printf("[INFO] pair %s/%s: %v", asset, bench, report.Insufficient)
		m.Metrics.ObserveInsufficient()
	} else if v := report.Evaluation.Result.LastValue; !math.IsNaN(v) && m.isTracked(asset, bench) {
		m.Metrics.SetLastRSSMA(asset, bench, v)
	}
	m.Metrics.ObserveStatus("pair", string(report.Status().Status))
	return report, nil
}

// EvaluateCredit fetches the high-yield / investment-grade pair and classifies it.
func (m *Monitor) EvaluateCredit(ctx context.Context, high, low string) CreditReport {
	series, err := m.Collector.FetchAll(ctx, []string{high, low})
	return m.creditFetched(high, low, series, err)
}

func (m *Monitor) creditFetched(high, low string, series map[string]model.PriceSeries, err error) CreditReport {
	report := CreditReport{High: high, Low: low}
	h, okH := series[high]
	l, okL := series[low]
	if !okH || !okL {
		report.Result = model.StatusResult{Status: model.StatusUnknown, Reason: fmt.Sprintf("credit fetch failed: %v", err), LastValue: math.NaN()}
		m.Metrics.ObserveStatus("credit", string(report.Result.Status))
		return report
	}

	ev, err := strategy.EvaluateCredit(h, l, m.Credit)
	var ide *calculator.InsufficientDataError
	switch {
	case err == nil:
		report.Evaluation = ev
		report.Result = ev.Result
	case errors.As(err, &ide):
		report.Result = model.StatusResult{Status: model.StatusUnknown, Reason: fmt.Sprintf("Not enough rows (%d)", ide.Rows), LastValue: math.NaN()}
	default:
		report.Result = model.StatusResult{Status: model.StatusUnknown, Reason: err.Error(), LastValue: math.NaN()}
	}
	m.Metrics.ObserveStatus("credit", string(report.Result.Status))
	return report
}

// Rotation classifies every sector against bench, evaluates the credit proxy and rolls
// everything up into an overall status.
func (m *Monitor) Rotation(ctx context.Context, sectors []string, bench, creditHigh, creditLow string) (*RotationReport, error) {
	if len(sectors) == 0 {
		return nil, fmt.Errorf("%w: empty sector list", calculator.ErrInvalidParameter)
	}

	// One concurrent round trip; a failed symbol is attempted once, not once per pair.
	all := append(append([]string{}, sectors...), bench, creditHigh, creditLow)
	series, fetchErr := m.Collector.FetchAll(ctx, all)
	if fetchErr != nil {
		log.Printf("[WARN] rotation fetch: %v", fetchErr)
	}

	report := &RotationReport{Bench: bench, AsOf: time.Now().UTC()}
	statuses := make([]model.Status, 0, len(sectors))
	for _, sym := range sectors {
		start := time.Now()
		pr, err := m.evaluateFetched(sym, bench, series, fetchErr)
		m.Metrics.ObserveEvaluate(start)
		var res model.StatusResult
		if err != nil {
			res = model.StatusResult{Status: model.StatusUnknown, Reason: err.Error(), LastValue: math.NaN()}
		} else {
			res = pr.Status()
		}
		report.Sectors = append(report.Sectors, SectorStatus{Symbol: sym, Result: res})
		statuses = append(statuses, res.Status)
	}

	report.Credit = m.creditFetched(creditHigh, creditLow, series, fetchErr)
	report.Overall = strategy.Rollup(statuses, report.Credit.Result.Status)
	m.Metrics.ObserveStatus("overall", string(report.Overall.Status))
	return report, nil
}
