package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/collector"
	"RSSentinel/internal/config"
	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/recorder"
	"RSSentinel/internal/strategy"
)

type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

type memRecorder struct {
	recorder.NoopRecorder
	pairs     []*recorder.PairSnapshot
	rotations []*recorder.RotationSnapshot
}

func (m *memRecorder) RecordPair(s *recorder.PairSnapshot) error {
	m.pairs = append(m.pairs, s)
	return nil
}

func (m *memRecorder) RecordRotation(s *recorder.RotationSnapshot) error {
	m.rotations = append(m.rotations, s)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureNotifier, *memRecorder) {
	t.Helper()
	col := collector.NewCollector(&collector.MockFetcher{Base: 100}, collector.NewMemoryCache(), time.Hour, "1y")
	mon := monitor.NewMonitor(col, strategy.DefaultParams(), strategy.CreditParams{
		Warn: strategy.DefaultCreditWarn, Danger: strategy.DefaultCreditDanger, MinRows: calculator.DefaultMinRows,
	})
	n := &captureNotifier{}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), mon, n, rec, Universe{
		Pairs:      []config.Pair{{Asset: "FCX", Bench: "SPY"}, {Asset: "XLE", Bench: "SPY"}},
		Sectors:    []string{"XLE", "XLB"},
		Bench:      "SPY",
		CreditHigh: "HYG",
		CreditLow:  "LQD",
	})
	return s, n, rec
}

func TestScheduler_RegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 0 8 * * 1"))
	assert.Len(t, s.Cron.Entries(), 2)
	assert.Error(t, s.RegisterAll("not a cron", "0 0 8 * * 1"))
}

func TestScheduler_DailyTask(t *testing.T) {
	s, n, rec := newTestScheduler(t)
	reports := s.dailyTask(model.TriggerManual)

	require.Len(t, reports, 2)
	require.Len(t, rec.pairs, 2)
	assert.Equal(t, rec.pairs[0].RunID, rec.pairs[1].RunID)
	assert.Equal(t, model.TriggerManual, rec.pairs[0].Trigger)
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "FCX/SPY")
	assert.Contains(t, n.msgs[0], "XLE/SPY")
}

func TestScheduler_RotationTask(t *testing.T) {
	s, n, rec := newTestScheduler(t)
	report := s.rotationTask(model.TriggerRotation)

	require.NotNil(t, report)
	assert.Len(t, report.Sectors, 2)
	require.Len(t, rec.rotations, 1)
	assert.NotEmpty(t, rec.rotations[0].RunID)
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "Sector Rotation vs SPY")
}

func TestScheduler_HandleCommand(t *testing.T) {
	s, n, _ := newTestScheduler(t)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/status nvda qqq")
	assert.Contains(t, reply, "NVDA vs QQQ")

	assert.Empty(t, s.HandleCommand(ctx, "/rotation"))
	assert.Len(t, n.msgs, 1)

	assert.Contains(t, s.HandleCommand(ctx, "/status@RSBot FCX"), "FCX vs SPY")
	assert.Contains(t, s.HandleCommand(ctx, "/unknown"), "Available commands")
	assert.Contains(t, s.HandleCommand(ctx, "   "), "Available commands")
}
