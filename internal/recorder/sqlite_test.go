package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/strategy"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	return rec
}

func series(symbol string, n int, rate float64) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, n)
	price := 100.0
	for i := range pts {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: price}
		price *= 1 + rate
	}
	return model.PriceSeries{Symbol: symbol, Points: pts, AsOf: start.AddDate(0, 0, n)}
}

func TestSQLiteRecorder_PairRoundTrip(t *testing.T) {
	rec := openTestRecorder(t)

	ok, err := monitor.EvaluateSeries(series("XLE", 120, 0.001), series("SPY", 120, 0), strategy.DefaultParams())
	require.NoError(t, err)
	short, err := monitor.EvaluateSeries(series("XLE", 30, 0.001), series("SPY", 30, 0), strategy.DefaultParams())
	require.NoError(t, err)
	require.NotNil(t, short.Insufficient)

	firstRun, secondRun := uuid.NewString(), uuid.NewString()
	require.NoError(t, rec.RecordPair(&PairSnapshot{RunID: firstRun, Trigger: model.TriggerDaily, Report: ok}))
	require.NoError(t, rec.RecordPair(&PairSnapshot{RunID: secondRun, Trigger: model.TriggerManual, Report: short}))

	got, err := rec.RecentPairs("XLE", "SPY", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// newest first
	assert.Equal(t, secondRun, got[0].RunID)
	assert.Equal(t, model.TriggerManual, got[0].Trigger)
	assert.Equal(t, model.StatusUnknown, got[0].Status)
	assert.Equal(t, 30, got[0].AlignedRows)
	assert.True(t, math.IsNaN(got[0].LastValue))

	assert.Equal(t, firstRun, got[1].RunID)
	assert.Equal(t, model.StatusGreen, got[1].Status)
	assert.Equal(t, 120, got[1].AlignedRows)
	assert.InDelta(t, 0.001, got[1].LastValue, 1e-9)

	none, err := rec.RecentPairs("XLB", "SPY", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecorder_Rotation(t *testing.T) {
	rec := openTestRecorder(t)

	report := &monitor.RotationReport{
		Bench: "SPY",
		AsOf:  time.Now().UTC(),
		Sectors: []monitor.SectorStatus{
			{Symbol: "XLE", Result: model.StatusResult{Status: model.StatusGreen, Reason: "ok", LastValue: 0.001}},
			{Symbol: "XLB", Result: model.StatusResult{Status: model.StatusUnknown, Reason: "fetch failed", LastValue: math.NaN()}},
		},
		Credit:  monitor.CreditReport{High: "HYG", Low: "LQD", Result: strategy.CreditStatus(2.5, strategy.DefaultCreditWarn, strategy.DefaultCreditDanger)},
		Overall: strategy.Rollup([]model.Status{model.StatusGreen, model.StatusUnknown}, model.StatusGreen),
	}
	runID := uuid.NewString()
	require.NoError(t, rec.RecordRotation(&RotationSnapshot{RunID: runID, Trigger: model.TriggerRotation, Report: report}))

	var count int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM rotation_sectors WHERE run_id = ?`, runID).Scan(&count))
	assert.Equal(t, 2, count)

	var overall string
	require.NoError(t, rec.db.QueryRow(`SELECT overall_status FROM rotation_snapshots WHERE run_id = ?`, runID).Scan(&overall))
	assert.Equal(t, string(model.StatusUnknown), overall)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordPair(&PairSnapshot{}))
	assert.NoError(t, rec.RecordRotation(&RotationSnapshot{}))
	got, err := rec.RecentPairs("A", "B", 1)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, rec.Close())
}
