package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/model"
)

func buildSeries(symbol string, closes []float64) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Symbol: symbol, Points: pts, AsOf: start.AddDate(0, 0, len(closes))}
}

func TestStatusFromRSSMA_AllBoundaries(t *testing.T) {
	tests := []struct {
		value  float64
		status model.Status
	}{
		{0.0003, model.StatusGreen},
		{0.0002, model.StatusYellow},
		{0.0001, model.StatusYellow},
		{0.0, model.StatusYellow},
		{-0.0002, model.StatusYellow},
		{-0.00020001, model.StatusRed},
		{-0.0005, model.StatusRed},
		{math.NaN(), model.StatusUnknown},
	}
	for _, tt := range tests {
		res := StatusFromRSSMA(tt.value, 0.0002)
		if res.Status != tt.status {
			t.Errorf("value %g: expected %s, got %s (%s)", tt.value, tt.status, res.Status, res.Reason)
		}
	}
}

func TestStatusFromRSSMA_Reasons(t *testing.T) {
	tests := []struct {
		value  float64
		reason string
	}{
		{0.0003, "RS SMA(50) 0.0300% > +0.0200%"},
		{-0.0005, "RS SMA(50) -0.0500% < -0.0200%"},
		{0.0002, "RS SMA(50) 0.0200% within ±0.0200%"},
		{math.NaN(), "No RS SMA value available."},
	}
	for _, tt := range tests {
		res := StatusFromRSSMA(tt.value, DefaultYellowBand)
		if res.Reason != tt.reason {
			t.Errorf("value %g: expected reason %q, got %q", tt.value, tt.reason, res.Reason)
		}
	}
	if got := StatusFromRSSMAWindow(0.001, DefaultYellowBand, 20).Reason; got != "RS SMA(20) 0.1000% > +0.0200%" {
		t.Errorf("unexpected window label: %q", got)
	}
}

func TestRollup_Precedence(t *testing.T) {
	g, y, r, u := model.StatusGreen, model.StatusYellow, model.StatusRed, model.StatusUnknown
	tests := []struct {
		name         string
		constituents []model.Status
		companion    model.Status
		want         model.Status
	}{
		{"red constituent beats everything", []model.Status{g, g, y, r}, g, r},
		{"red companion", []model.Status{g, g, g}, r, r},
		{"yellow constituent", []model.Status{g, g, y}, g, y},
		{"yellow companion", []model.Status{g, g}, y, y},
		{"two greens with green companion", []model.Status{g, g, u}, g, g},
		{"one green is not enough", []model.Status{g, u, u}, g, u},
		{"greens without companion", []model.Status{g, g, g}, u, u},
		{"empty", nil, g, u},
	}
	for _, tt := range tests {
		got := Rollup(tt.constituents, tt.companion)
		if got.Status != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got.Status)
		}
		if got.Reason == "" {
			t.Errorf("%s: expected a reason", tt.name)
		}
	}
}

func TestCreditStatus_Thresholds(t *testing.T) {
	tests := []struct {
		last float64
		want model.Status
	}{
		{4.99, model.StatusGreen},
		{5.0, model.StatusYellow},
		{6.5, model.StatusYellow},
		{7.0, model.StatusRed},
		{-3, model.StatusGreen},
		{math.NaN(), model.StatusUnknown},
	}
	for _, tt := range tests {
		got := CreditStatus(tt.last, DefaultCreditWarn, DefaultCreditDanger)
		if got.Status != tt.want {
			t.Errorf("last %.2f: expected %s, got %s", tt.last, tt.want, got.Status)
		}
	}
}

func TestEvaluateCredit(t *testing.T) {
	high := make([]float64, 90)
	low := make([]float64, 90)
	for i := range high {
		high[i] = 80
		low[i] = 100
	}
	high[89] = 106 // +6% over IG on the last day
	ev, err := EvaluateCredit(buildSeries("HYG", high), buildSeries("LQD", low),
		CreditParams{Warn: DefaultCreditWarn, Danger: DefaultCreditDanger, MinRows: calculator.DefaultMinRows})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Result.Status != model.StatusYellow {
		t.Errorf("expected YELLOW, got %s (%s)", ev.Result.Status, ev.Result.Reason)
	}
	if len(ev.Ratios) != 90 {
		t.Errorf("expected 90 ratios, got %d", len(ev.Ratios))
	}

	_, err = EvaluateCredit(buildSeries("HYG", high), buildSeries("LQD", low), CreditParams{Warn: 8, Danger: 7})
	if !errors.Is(err, calculator.ErrInvalidParameter) {
		t.Errorf("expected invalid parameter, got %v", err)
	}
}

func TestEvaluate_Outperformance(t *testing.T) {
	asset := make([]float64, 100)
	bench := make([]float64, 100)
	asset[0], bench[0] = 100, 400
	for i := 1; i < 100; i++ {
		bench[i] = bench[i-1] * 1.001
		r := 0.001
		if i >= 50 {
			r += 0.0005
		}
		asset[i] = asset[i-1] * (1 + r)
	}
	ev, err := Evaluate(buildSeries("XLE", asset), buildSeries("SPY", bench), DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := ev.Smoothed[len(ev.Smoothed)-1]
	if !(last > 0) {
		t.Fatalf("expected positive SMA, got %g", last)
	}
	if ev.Result.Status != model.StatusGreen {
		t.Errorf("expected GREEN, got %s (%s)", ev.Result.Status, ev.Result.Reason)
	}
	if len(ev.RS) != 100 || len(ev.Smoothed) != 100 {
		t.Errorf("expected 100-length series, got rs=%d sma=%d", len(ev.RS), len(ev.Smoothed))
	}
}

func TestEvaluate_Underperformance(t *testing.T) {
	asset := make([]float64, 120)
	bench := make([]float64, 120)
	for i := range asset {
		asset[i] = 100 * math.Pow(0.999, float64(i))
		bench[i] = 100
	}
	ev, err := Evaluate(buildSeries("XLK", asset), buildSeries("SPY", bench), DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Result.Status != model.StatusRed {
		t.Errorf("expected RED, got %s (%s)", ev.Result.Status, ev.Result.Reason)
	}
}

func TestEvaluate_InsufficientData(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	_, err := Evaluate(buildSeries("A", closes), buildSeries("B", closes), DefaultParams())
	var ide *calculator.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ide.Rows != 60 || ide.Required != 80 {
		t.Errorf("unexpected rows/required: %d/%d", ide.Rows, ide.Required)
	}
}

func TestEvaluate_InteriorNaNsYieldUnknown(t *testing.T) {
	// Zero asset closes make every RS value NaN while every row stays finite.
	asset := make([]float64, 100)
	bench := make([]float64, 100)
	for i := range asset {
		asset[i] = 0
		bench[i] = 100
	}
	ev, err := Evaluate(buildSeries("A", asset), buildSeries("B", bench), DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Result.Status != model.StatusUnknown {
		t.Errorf("expected UNKNOWN, got %s", ev.Result.Status)
	}
}

func TestEvaluate_InvalidParams(t *testing.T) {
	s := buildSeries("A", []float64{1, 2, 3})
	if _, err := Evaluate(s, s, Params{Window: 0, YellowBand: DefaultYellowBand}); !errors.Is(err, calculator.ErrInvalidParameter) {
		t.Errorf("expected invalid parameter for zero window, got %v", err)
	}
	if _, err := Evaluate(s, s, Params{Window: 5, YellowBand: -1}); !errors.Is(err, calculator.ErrInvalidParameter) {
		t.Errorf("expected invalid parameter for negative band, got %v", err)
	}
}
