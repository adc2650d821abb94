package strategy

import (
	"fmt"
	"math"

	"RSSentinel/internal/model"
)

// DefaultYellowBand is the half-width of the neutral zone around zero RS SMA.
const DefaultYellowBand = 0.0002

// StatusFromRSSMA classifies the last RS SMA(50) value.
func StatusFromRSSMA(value, yellowBand float64) model.StatusResult {
	return StatusFromRSSMAWindow(value, yellowBand, DefaultWindow)
}

// StatusFromRSSMAWindow classifies the last RS SMA value computed over window periods.
// GREEN and RED are strict; a value exactly on the band edge is YELLOW.
func StatusFromRSSMAWindow(value, yellowBand float64, window int) model.StatusResult {
	label := fmt.Sprintf("RS SMA(%d)", window)
	switch {
	case math.IsNaN(value):
		return model.StatusResult{Status: model.StatusUnknown, Reason: "No RS SMA value available.", LastValue: value}
	case value > yellowBand:
		return model.StatusResult{
			Status:    model.StatusGreen,
			Reason:    fmt.Sprintf("%s %s > +%s", label, Percent(value), Percent(yellowBand)),
			LastValue: value,
		}
	case value < -yellowBand:
		return model.StatusResult{
			Status:    model.StatusRed,
			Reason:    fmt.Sprintf("%s %s < -%s", label, Percent(value), Percent(yellowBand)),
			LastValue: value,
		}
	default:
		return model.StatusResult{
			Status:    model.StatusYellow,
			Reason:    fmt.Sprintf("%s %s within ±%s", label, Percent(value), Percent(yellowBand)),
			LastValue: value,
		}
	}
}

// Percent renders a fraction as a percentage with four decimals, e.g. 0.0003 -> "0.0300%".
func Percent(v float64) string {
	return fmt.Sprintf("%.4f%%", v*100)
}
