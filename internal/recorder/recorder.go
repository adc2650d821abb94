package recorder

import (
	"time"

	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
)

// PairSnapshot holds one pair evaluation to persist.
type PairSnapshot struct {
	RunID   string
	Trigger model.TriggerType
	Report  *monitor.PairReport
}

// RotationSnapshot holds one rotation overview to persist.
type RotationSnapshot struct {
	RunID   string
	Trigger model.TriggerType
	Report  *monitor.RotationReport
}

// PairRecord is a stored pair evaluation. LastValue is NaN when none was available.
type PairRecord struct {
	RunID       string
	Timestamp   time.Time
	Trigger     model.TriggerType
	Asset       string
	Bench       string
	AsOf        time.Time
	AlignedRows int
	Status      model.Status
	Reason      string
	LastValue   float64
}

// Recorder persists historical evaluations for analysis.
type Recorder interface {
	RecordPair(snap *PairSnapshot) error
	RecordRotation(snap *RotationSnapshot) error
	RecentPairs(asset, bench string, limit int) ([]PairRecord, error)
	Close() error
}
