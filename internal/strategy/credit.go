package strategy

import (
	"fmt"
	"math"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/model"
)

// Default credit divergence thresholds, in percentage points of the HY/IG price ratio.
const (
	DefaultCreditWarn   = 5.0
	DefaultCreditDanger = 7.0
)

// CreditParams configures the credit-spread proxy.
type CreditParams struct {
	Warn    float64
	Danger  float64
	MinRows int
}

// CreditEvaluation is the credit-spread proxy computed from a high-yield / investment-grade pair.
type CreditEvaluation struct {
	Table  *model.AlignedTable
	Ratios []float64
	Result model.StatusResult
}

// CreditStatus classifies the latest HY/IG divergence. Thresholds are inclusive.
func CreditStatus(lastPct, warn, danger float64) model.StatusResult {
	switch {
	case math.IsNaN(lastPct):
		return model.StatusResult{Status: model.StatusUnknown, Reason: "No credit ratio available.", LastValue: lastPct}
	case lastPct >= danger:
		return model.StatusResult{
			Status:    model.StatusRed,
			Reason:    fmt.Sprintf("Credit divergence %.2f%% ≥ danger %.2f%%", lastPct, danger),
			LastValue: lastPct,
		}
	case lastPct >= warn:
		return model.StatusResult{
			Status:    model.StatusYellow,
			Reason:    fmt.Sprintf("Credit divergence %.2f%% ≥ warn %.2f%%", lastPct, warn),
			LastValue: lastPct,
		}
	default:
		return model.StatusResult{
			Status:    model.StatusGreen,
			Reason:    fmt.Sprintf("Credit divergence %.2f%% < warn %.2f%%", lastPct, warn),
			LastValue: lastPct,
		}
	}
}

// EvaluateCredit aligns the high-yield and investment-grade series and classifies the
// latest price-ratio divergence.
func EvaluateCredit(high, low model.PriceSeries, p CreditParams) (*CreditEvaluation, error) {
	if p.Warn > p.Danger {
		return nil, fmt.Errorf("%w: credit warn %.2f above danger %.2f", calculator.ErrInvalidParameter, p.Warn, p.Danger)
	}
	table, err := calculator.Align(high, low, p.MinRows)
	if err != nil {
		return nil, err
	}
	ratios := calculator.RatioPercent(table)
	return &CreditEvaluation{
		Table:  table,
		Ratios: ratios,
		Result: CreditStatus(calculator.LastNonNaN(ratios), p.Warn, p.Danger),
	}, nil
}
