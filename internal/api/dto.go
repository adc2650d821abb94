package api

import (
	"math"
	"time"

	"RSSentinel/internal/model"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/recorder"
)

// JSON has no NaN, so every float that may be missing is rendered through a pointer.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nullables(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = nullable(v)
	}
	return out
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(model.DateLayout)
	}
	return out
}

type statusDTO struct {
	Status    model.Status `json:"status"`
	Reason    string       `json:"reason"`
	LastValue *float64     `json:"last_value"`
}

func newStatusDTO(r model.StatusResult) statusDTO {
	return statusDTO{Status: r.Status, Reason: r.Reason, LastValue: nullable(r.LastValue)}
}

type insufficientDTO struct {
	Rows     int `json:"rows"`
	Required int `json:"required"`
}

type seriesDTO struct {
	Dates    []string   `json:"dates"`
	Asset    []*float64 `json:"asset_close"`
	Bench    []*float64 `json:"bench_close"`
	RS       []*float64 `json:"rs"`
	Smoothed []*float64 `json:"rs_sma"`
}

type pairDTO struct {
	Asset            string           `json:"asset"`
	Bench            string           `json:"bench"`
	AsOf             time.Time        `json:"as_of"`
	Window           int              `json:"window"`
	YellowBand       float64          `json:"yellow_band"`
	Result           statusDTO        `json:"result"`
	AlignedRows      int              `json:"aligned_rows"`
	InsufficientData *insufficientDTO `json:"insufficient_data,omitempty"`
	FetchError       string           `json:"fetch_error,omitempty"`
	Series           *seriesDTO       `json:"series,omitempty"`
}

func newPairDTO(r *monitor.PairReport, withSeries bool) pairDTO {
	dto := pairDTO{
		Asset:      r.Asset,
		Bench:      r.Bench,
		AsOf:       r.AsOf,
		Window:     r.Params.Window,
		YellowBand: r.Params.YellowBand,
		Result:     newStatusDTO(r.Status()),
		FetchError: r.FetchErr,
	}
	if r.Insufficient != nil {
		dto.InsufficientData = &insufficientDTO{Rows: r.Insufficient.Rows, Required: r.Insufficient.Required}
		dto.AlignedRows = r.Insufficient.Rows
	}
	if ev := r.Evaluation; ev != nil {
		dto.AlignedRows = ev.Table.Len()
		if withSeries {
			dto.Series = &seriesDTO{
				Dates:    formatDates(ev.Table.Dates()),
				Asset:    nullables(ev.Table.AssetCloses()),
				Bench:    nullables(ev.Table.BenchCloses()),
				RS:       nullables(ev.RS),
				Smoothed: nullables(ev.Smoothed),
			}
		}
	}
	return dto
}

type sectorDTO struct {
	Symbol string    `json:"symbol"`
	Result statusDTO `json:"result"`
}

type creditDTO struct {
	High   string    `json:"high"`
	Low    string    `json:"low"`
	Result statusDTO `json:"result"`
}

type rotationDTO struct {
	Bench   string      `json:"bench"`
	AsOf    time.Time   `json:"as_of"`
	Sectors []sectorDTO `json:"sectors"`
	Credit  creditDTO   `json:"credit"`
	Overall statusDTO   `json:"overall"`
}

func newRotationDTO(r *monitor.RotationReport) rotationDTO {
	dto := rotationDTO{
		Bench:   r.Bench,
		AsOf:    r.AsOf,
		Sectors: make([]sectorDTO, 0, len(r.Sectors)),
		Credit:  creditDTO{High: r.Credit.High, Low: r.Credit.Low, Result: newStatusDTO(r.Credit.Result)},
		Overall: newStatusDTO(r.Overall),
	}
	for _, s := range r.Sectors {
		dto.Sectors = append(dto.Sectors, sectorDTO{Symbol: s.Symbol, Result: newStatusDTO(s.Result)})
	}
	return dto
}

type recordDTO struct {
	RunID       string            `json:"run_id"`
	Timestamp   time.Time         `json:"timestamp"`
	Trigger     model.TriggerType `json:"trigger"`
	AsOf        time.Time         `json:"as_of"`
	AlignedRows int               `json:"aligned_rows"`
	Result      statusDTO         `json:"result"`
}

func newRecordDTOs(records []recorder.PairRecord) []recordDTO {
	out := make([]recordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, recordDTO{
			RunID:       r.RunID,
			Timestamp:   r.Timestamp,
			Trigger:     r.Trigger,
			AsOf:        r.AsOf,
			AlignedRows: r.AlignedRows,
			Result:      newStatusDTO(model.StatusResult{Status: r.Status, Reason: r.Reason, LastValue: r.LastValue}),
		})
	}
	return out
}
