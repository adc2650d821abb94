package model

// Status is the traffic-light classification of a signal.
type Status string

const (
	StatusGreen   Status = "GREEN"
	StatusYellow  Status = "YELLOW"
	StatusRed     Status = "RED"
	StatusUnknown Status = "UNKNOWN"
)

// StatusResult is the classifier output. LastValue is NaN when no value was available.
type StatusResult struct {
	Status    Status
	Reason    string
	LastValue float64
}

// TriggerType indicates what triggered an evaluation.
type TriggerType string

const (
	TriggerDaily    TriggerType = "DAILY"
	TriggerRotation TriggerType = "ROTATION"
	TriggerManual   TriggerType = "MANUAL"
	TriggerAPI      TriggerType = "API"
)
