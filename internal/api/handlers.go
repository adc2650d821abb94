package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"RSSentinel/internal/calculator"
	"RSSentinel/internal/metrics"
	"RSSentinel/internal/monitor"
	"RSSentinel/internal/recorder"
)

const defaultHistoryLimit = 20

// Universe names the symbols behind the default benchmark and the rotation overview.
type Universe struct {
	Bench      string
	Sectors    []string
	CreditHigh string
	CreditLow  string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	monitor  *monitor.Monitor
	recorder recorder.Recorder
	metrics  *metrics.Metrics
	universe Universe
}

// NewHandler creates a new Handler
func NewHandler(mon *monitor.Monitor, rec recorder.Recorder, m *metrics.Metrics, u Universe) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{
		monitor:  mon,
		recorder: rec,
		metrics:  m,
		universe: u,
	}
}

func (h *Handler) benchParam(r *http.Request) string {
	if b := strings.TrimSpace(r.URL.Query().Get("bench")); b != "" {
		return strings.ToUpper(b)
	}
	return h.universe.Bench
}

// GetPair handles GET /pairs/{asset}
func (h *Handler) GetPair(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(mux.Vars(r)["asset"])
	bench := h.benchParam(r)

	report, err := h.monitor.EvaluatePair(r.Context(), asset, bench)
	if err != nil {
		respondError(w, err)
		return
	}

	withSeries := r.URL.Query().Get("series") == "true"
	respondJSON(w, http.StatusOK, newPairDTO(report, withSeries))
}

// GetPairHistory handles GET /pairs/{asset}/history
func (h *Handler) GetPairHistory(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(mux.Vars(r)["asset"])
	bench := h.benchParam(r)

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.recorder.RecentPairs(asset, bench, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, newRecordDTOs(records))
}

// GetRotation handles GET /rotation
func (h *Handler) GetRotation(w http.ResponseWriter, r *http.Request) {
	u := h.universe
	report, err := h.monitor.Rotation(r.Context(), u.Sectors, u.Bench, u.CreditHigh, u.CreditLow)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newRotationDTO(report))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, calculator.ErrInvalidParameter) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("[ERROR] api: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
