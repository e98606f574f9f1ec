package http

import (
	"net/http"
	"strconv"
	"time"

	"fleetledger-backend/internal/service"
	"fleetledger-backend/internal/stats"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// statsWindow builds an aggregation window from query parameters.
// ?range=ytd and ?range=trailing&months=n are presets; ?start=YYYY-MM-DD
// and ?end=YYYY-MM-DD give an explicit window. No parameters means all time.
func statsWindow(r *http.Request) *stats.Window {
	q := r.URL.Query()
	switch q.Get("range") {
	case "ytd":
		w := stats.YearToDate(time.Now())
		return &w
	case "trailing":
		months := 3
		if n, err := strconv.Atoi(q.Get("months")); err == nil && n > 0 {
			months = n
		}
		w := stats.TrailingMonths(time.Now(), months)
		return &w
	}

	start := q.Get("start")
	end := q.Get("end")
	if start == "" && end == "" {
		return nil
	}
	if end == "" {
		end = "9999-12-31"
	}
	return &stats.Window{Start: start, End: end}
}

func (h *StatsHandler) DriverStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.DriverStats(r.Context(), callerID(r), statsWindow(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StatsHandler) CarStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	result, err := h.svc.CarStats(r.Context(), callerID(r), id, statsWindow(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
