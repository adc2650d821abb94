package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPair(_ *PairSnapshot) error         { return nil }
func (n *NoopRecorder) RecordRotation(_ *RotationSnapshot) error { return nil }
func (n *NoopRecorder) RecentPairs(_, _ string, _ int) ([]PairRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
