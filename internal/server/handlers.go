package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"BioDash/internal/dataset"
	"BioDash/internal/model"
	"BioDash/internal/query"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// snapshot returns the current snapshot or replies 503 before the first
// successful load.
func (s *Server) snapshot(w http.ResponseWriter) (*dataset.Snapshot, bool) {
	snap := s.manager.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return nil, false
	}
	return snap, true
}

// filterFromQuery builds a Filter from request query parameters. Absent or
// unparseable numeric parameters are treated as unset.
func filterFromQuery(r *http.Request) query.Filter {
	q := r.URL.Query()
	atoi := func(key string) int {
		n, _ := strconv.Atoi(q.Get(key))
		return n
	}
	return query.Filter{
		Year:  atoi("year"),
		Month: atoi("month"),
		Day:   atoi("day"),
		State: q.Get("state"),
		City:  q.Get("city"),
		Agent: q.Get("agent"),
		Band:  q.Get("band"),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.manager.Snapshot()
	status := map[string]any{"status": "ok", "loaded": snap != nil}
	if snap != nil {
		status["dataset_id"] = snap.ID
		status["loaded_at"] = snap.LoadedAt
		status["records"] = len(snap.Rows)
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	field := r.URL.Query().Get("field")
	if !query.ValidField(field) {
		writeError(w, http.StatusBadRequest, "unknown field "+strconv.Quote(field))
		return
	}
	rows := query.Apply(snap.Rows, filterFromQuery(r))
	writeJSON(w, http.StatusOK, map[string]any{"field": field, "options": query.Options(rows, field)})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	rows := query.Apply(snap.Rows, filterFromQuery(r))
	total := len(rows)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(rows) {
			rows = rows[:limit]
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "records": rows})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	rows := query.Apply(snap.Rows, filterFromQuery(r))
	writeJSON(w, http.StatusOK, query.Summarize(rows))
}

func (s *Server) handleBands(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	agent := r.URL.Query().Get("agent")
	if agent == "" {
		writeJSON(w, http.StatusOK, snap.Bands)
		return
	}
	bands, found := snap.Bands[agent]
	if !found {
		writeError(w, http.StatusNotFound, "unknown agent "+strconv.Quote(agent))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Band{agent: bands})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	by := r.URL.Query().Get("by")
	if by == "" {
		by = query.ByAgent
	}
	rows := query.Apply(snap.Rows, filterFromQuery(r))
	groups, err := query.Aggregate(rows, by)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	top := 15
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil {
			top = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"by":     by,
		"total":  len(groups),
		"groups": query.Top(groups, top),
	})
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = query.PeriodMonth
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = query.MetricTotal
	}
	rows := query.Apply(snap.Rows, filterFromQuery(r))
	points, err := query.TimeSeries(rows, period, metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period": period,
		"metric": metric,
		"points": points,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	rows := query.Apply(snap.Rows, filterFromQuery(r))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="purchases_filtered.csv"`)
	if err := query.WriteCSV(w, rows); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
