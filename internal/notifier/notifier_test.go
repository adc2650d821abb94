package notifier

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/strategy"
)

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "42", payload["chat_id"])
		assert.Equal(t, "HTML", payload["parse_mode"])
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	tn.Backoff = time.Millisecond

	require.NoError(t, tn.SendWithRetry(context.Background(), "hello", 3))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestTelegramNotifier_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	tn.Backoff = time.Millisecond

	err := tn.SendWithRetry(context.Background(), "hello", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts exhausted")
}

func pairReport(t *testing.T, n int, rate float64) *monitor.PairReport {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(sym string, r float64) model.PriceSeries {
		pts := make([]model.PricePoint, n)
		p := 100.0
		for i := range pts {
			pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: p}
			p *= 1 + r
		}
		return model.PriceSeries{Symbol: sym, Points: pts, AsOf: start.AddDate(0, 0, n)}
	}
	rep, err := monitor.EvaluateSeries(mk("FCX", rate), mk("SPY", 0), strategy.DefaultParams())
	require.NoError(t, err)
	return rep
}

func TestFormatPairReport(t *testing.T) {
	msg := FormatPairReport(pairReport(t, 120, -0.001))
	assert.Contains(t, msg, "FCX vs SPY")
	assert.Contains(t, msg, "RS SMA(50) Status:</b> RED")
	assert.Contains(t, msg, "Aligned rows: 120")
	assert.Contains(t, msg, "RS SMA(50) -0.1000% &lt; -0.0200%")

	short := FormatPairReport(pairReport(t, 20, 0.001))
	assert.Contains(t, short, "20 rows (need 80)")

	failed := FormatPairReport(&monitor.PairReport{Asset: "FCX", Bench: "SPY", FetchErr: "Live data fetch failed: <timeout>"})
	assert.Contains(t, failed, "&lt;timeout&gt;")
}

func TestFormatRotationReport(t *testing.T) {
	r := &monitor.RotationReport{
		Bench: "SPY",
		Sectors: []monitor.SectorStatus{
			{Symbol: "XLE", Result: strategy.StatusFromRSSMA(0.0005, strategy.DefaultYellowBand)},
			{Symbol: "XLB", Result: model.StatusResult{Status: model.StatusUnknown, LastValue: math.NaN()}},
		},
		Credit:  monitor.CreditReport{High: "HYG", Low: "LQD", Result: strategy.CreditStatus(7.5, 5, 7)},
		Overall: strategy.Rollup([]model.Status{model.StatusGreen, model.StatusUnknown}, model.StatusRed),
	}
	msg := FormatRotationReport(r)
	assert.Contains(t, msg, "XLE: GREEN (0.0500%)")
	assert.Contains(t, msg, "XLB: UNKNOWN (N/A)")
	assert.Contains(t, msg, "Credit HYG/LQD: 🔴 RED")
	assert.Contains(t, msg, "At least one critical signal is RED.")
}
