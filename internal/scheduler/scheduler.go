package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"RSSentinel/internal/config"
	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/notifier"
	"RSSentinel/internal/recorder"
)

// Universe is the set of symbols the scheduled jobs evaluate.
type Universe struct {
	Pairs      []config.Pair
	Sectors    []string
	Bench      string
	CreditHigh string
	CreditLow  string
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Monitor  *monitor.Monitor
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Universe Universe
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, mon *monitor.Monitor, n notifier.Notifier, rec recorder.Recorder, u Universe) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Monitor:  mon,
		Notifier: n,
		Recorder: rec,
		Universe: u,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily pair evaluation and the rotation overview.
func (s *Scheduler) RegisterAll(dailyCron, rotationCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, func() { s.dailyTask(model.TriggerDaily) }); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(rotationCron, func() { s.rotationTask(model.TriggerRotation) }); err != nil {
		return fmt.Errorf("register rotation task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask(model.TriggerManual)
}

func (s *Scheduler) dailyTask(trigger model.TriggerType) []*monitor.PairReport {
	log.Printf("[INFO] running daily task (%s)", trigger)
	runID := uuid.NewString()

	var reports []*monitor.PairReport
	for _, p := range s.Universe.Pairs {
		report, err := s.Monitor.EvaluatePair(s.Ctx, p.Asset, p.Bench)
		if err != nil {
			log.Printf("[ERROR] evaluate %s/%s: %v", p.Asset, p.Bench, err)
			continue
		}
		reports = append(reports, report)
		if err := s.Recorder.RecordPair(&recorder.PairSnapshot{RunID: runID, Trigger: trigger, Report: report}); err != nil {
			log.Printf("[ERROR] record pair %s/%s: %v", p.Asset, p.Bench, err)
		}
	}

	if len(reports) == 0 {
		return nil
	}
	if len(reports) == 1 {
		s.trySend(notifier.FormatPairReport(reports[0]))
	} else {
		s.trySend(notifier.FormatDailyDigest(reports))
	}
	return reports
}

func (s *Scheduler) rotationTask(trigger model.TriggerType) *monitor.RotationReport {
	log.Printf("[INFO] running rotation task (%s)", trigger)
	u := s.Universe
	report, err := s.Monitor.Rotation(s.Ctx, u.Sectors, u.Bench, u.CreditHigh, u.CreditLow)
	if err != nil {
		log.Printf("[ERROR] rotation: %v", err)
		s.trySend(fmt.Sprintf("❌ Rotation overview failed: %v", err))
		return nil
	}

	s.trySend(notifier.FormatRotationReport(report))

	if err := s.Recorder.RecordRotation(&recorder.RotationSnapshot{
		RunID:   uuid.NewString(),
		Trigger: trigger,
		Report:  report,
	}); err != nil {
		log.Printf("[ERROR] record rotation: %v", err)
	}
	return report
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}

	// Group chats address commands as /status@BotName.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	switch cmd {
	case "/status":
		if len(fields) == 1 {
			s.dailyTask(model.TriggerManual)
			return ""
		}
		asset := strings.ToUpper(fields[1])
		bench := s.Universe.Bench
		if len(fields) > 2 {
			bench = strings.ToUpper(fields[2])
		}
		report, err := s.Monitor.EvaluatePair(ctx, asset, bench)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatPairReport(report)
	case "/rotation":
		s.rotationTask(model.TriggerManual)
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
