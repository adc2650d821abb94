package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks a caller contract violation (bad window, bad symbol list).
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientData matches any *InsufficientDataError via errors.Is.
	ErrInsufficientData = errors.New("insufficient data")
)

// InsufficientDataError reports that alignment produced fewer rows than required.
// It is a terminal outcome for the evaluation, not a retryable failure.
type InsufficientDataError struct {
	Rows     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d aligned rows, need %d", e.Rows, e.Required)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
