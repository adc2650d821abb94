package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/strategy"
)

func statusIcon(s model.Status) string {
	switch s {
	case model.StatusGreen:
		return "🟢"
	case model.StatusYellow:
		return "🟡"
	case model.StatusRed:
		return "🔴"
	default:
		return "⚪"
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return strategy.Percent(v)
}

// FormatPairReport formats a pair evaluation into a Telegram message.
func FormatPairReport(r *monitor.PairReport) string {
	var b strings.Builder
	st := r.Status()

	b.WriteString(fmt.Sprintf("📊 <b>%s vs %s</b> | %s\n\n", r.Asset, r.Bench, r.AsOf.Format("2006-01-02 15:04 MST")))

	switch {
	case r.Insufficient != nil:
		b.WriteString(fmt.Sprintf("⏳ Not enough aligned price history: %d rows (need %d)\n",
			r.Insufficient.Rows, r.Insufficient.Required))
		return b.String()
	case r.Evaluation == nil:
		b.WriteString(fmt.Sprintf("❌ %s\n", html.EscapeString(st.Reason)))
		return b.String()
	}

	ev := r.Evaluation
	b.WriteString(fmt.Sprintf("%s <b>RS SMA(%d) Status:</b> %s\n", statusIcon(st.Status), r.Params.Window, st.Status))
	b.WriteString(fmt.Sprintf("RS SMA(%d) Last: %s\n", r.Params.Window, formatValue(st.LastValue)))
	b.WriteString(fmt.Sprintf("Aligned rows: %d\n", ev.Table.Len()))
	if n := ev.Table.Len(); n > 0 {
		last := ev.Table.Rows[n-1]
		b.WriteString(fmt.Sprintf("Last close: %s %.2f | %s %.2f (%s)\n",
			r.Asset, last.AssetClose, r.Bench, last.BenchClose, last.Date.Format(model.DateLayout)))
	}
	b.WriteString(fmt.Sprintf("\n%s\n", html.EscapeString(st.Reason)))
	return b.String()
}

// FormatRotationReport formats the sector rotation overview.
func FormatRotationReport(r *monitor.RotationReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔄 <b>Sector Rotation vs %s</b> | %s\n\n", r.Bench, r.AsOf.Format("2006-01-02")))

	for _, s := range r.Sectors {
		b.WriteString(fmt.Sprintf("  %s %s: %s (%s)\n", statusIcon(s.Result.Status), s.Symbol,
			s.Result.Status, formatValue(s.Result.LastValue)))
	}
	b.WriteString("  ─────────────────\n")

	c := r.Credit.Result
	b.WriteString(fmt.Sprintf("💳 Credit %s/%s: %s %s\n", r.Credit.High, r.Credit.Low, statusIcon(c.Status), c.Status))
	b.WriteString(fmt.Sprintf("   %s\n\n", html.EscapeString(c.Reason)))

	b.WriteString(fmt.Sprintf("<b>Overall:</b> %s %s\n%s\n", statusIcon(r.Overall.Status), r.Overall.Status,
		html.EscapeString(r.Overall.Reason)))
	return b.String()
}

// FormatDailyDigest joins several pair reports into one message.
func FormatDailyDigest(reports []*monitor.PairReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>RS Daily</b> | %s\n\n", time.Now().Format("2006-01-02")))
	for _, r := range reports {
		st := r.Status()
		b.WriteString(fmt.Sprintf("%s %s/%s: %s %s\n", statusIcon(st.Status), r.Asset, r.Bench,
			st.Status, formatValue(st.LastValue)))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n• /status [ASSET] [BENCH]\n• /rotation\n• /help"
}
