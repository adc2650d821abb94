package strategy

import "RSSentinel/internal/model"

// Rollup aggregates constituent statuses with a companion signal (the credit proxy).
// Precedence is an ordered short-circuit: RED, then YELLOW, then GREEN when the companion
// is GREEN and at least two constituents are GREEN, otherwise UNKNOWN.
func Rollup(constituents []model.Status, companion model.Status) model.StatusResult {
	if companion == model.StatusRed || contains(constituents, model.StatusRed) {
		return model.StatusResult{Status: model.StatusRed, Reason: "At least one critical signal is RED."}
	}
	if companion == model.StatusYellow || contains(constituents, model.StatusYellow) {
		return model.StatusResult{Status: model.StatusYellow, Reason: "At least one signal is YELLOW. Monitor closely."}
	}
	greens := 0
	for _, s := range constituents {
		if s == model.StatusGreen {
			greens++
		}
	}
	if companion == model.StatusGreen && greens >= 2 {
		return model.StatusResult{Status: model.StatusGreen, Reason: "Rotation + credit conditions are supportive."}
	}
	return model.StatusResult{Status: model.StatusUnknown, Reason: "Insufficient confirmed signals for an aggregate call."}
}

func contains(statuses []model.Status, want model.Status) bool {
	for _, s := range statuses {
		if s == want {
			return true
		}
	}
	return false
}
