package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/calderost/bridgewatch/internal/events"
	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/monitor"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *CallServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/calls", s.handleIngestCalls)
	mux.HandleFunc("GET /v1/calls", s.handleListCalls)
	mux.HandleFunc("GET /v1/calls/{id}", s.handleGetCall)
	mux.HandleFunc("POST /v1/calls/{id}/select", s.handleSelectCall)
	mux.HandleFunc("GET /v1/session", s.handleGetSession)
	mux.HandleFunc("GET /v1/filters", s.handleGetFilters)
	mux.HandleFunc("PUT /v1/filters", s.handleSetFilters)
	mux.HandleFunc("GET /v1/metrics", s.handleGetMetrics)
	mux.HandleFunc("GET /v1/columns", s.handleGetColumns)
	mux.HandleFunc("POST /v1/clear", s.handleClear)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, LoggingMiddleware(RecoveryMiddleware(mux)))
}

// handleHealth handles GET /v1/health.
func (s *CallServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngestCalls handles POST /v1/calls: one RawEvent object or an array.
func (s *CallServer) handleIngestCalls(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	batch, err := events.ParseRawEvents(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := s.mon.OnEvent(r.Context(), monitor.EventNewRow, batch...)
	writeJSON(w, http.StatusAccepted, map[string]int{"appended": len(rows)})
}

// handleListCalls handles GET /v1/calls. Filters come as repeated
// filter=column:value params; combine and limit are optional. Without
// explicit filters the active session set applies.
func (s *CallServer) handleListCalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters, err := parseFilterParams(q["filter"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := model.CombineMode(q.Get("combine"))
	if mode != "" && !mode.IsValid() {
		writeError(w, http.StatusBadRequest, "combine must be first or all")
		return
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	rows := s.mon.View(filters, mode, limit)
	if rows == nil {
		rows = []*model.ViewRow{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"calls": rows,
		"total": len(rows),
	})
}

// handleGetCall handles GET /v1/calls/{id}: the detail inspector lookup.
func (s *CallServer) handleGetCall(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	payload := s.mon.Lookup(id)
	if payload == nil {
		writeError(w, http.StatusNotFound, "call not found")
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// handleSelectCall handles POST /v1/calls/{id}/select: records the row as
// the session selection. The selection is set even when the row is already
// gone; it then resolves to "no selection" on read.
func (s *CallServer) handleSelectCall(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	s.mon.OnHighlight(id)

	writeJSON(w, http.StatusOK, map[string]any{
		"selected": id,
		"payload":  s.mon.SelectedPayload(),
	})
}

// handleGetSession handles GET /v1/session.
func (s *CallServer) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	filters := s.mon.Filters()
	if filters == nil {
		filters = []model.Filter{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selected_key": s.mon.SelectedKey(),
		"payload":      s.mon.SelectedPayload(),
		"filters":      filters,
		"combine":      s.mon.Combine(),
		"metrics":      s.mon.Metrics(),
	})
}

// handleGetFilters handles GET /v1/filters.
func (s *CallServer) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	filters := s.mon.Filters()
	if filters == nil {
		filters = []model.Filter{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filters": filters,
		"combine": s.mon.Combine(),
	})
}

// handleSetFilters handles PUT /v1/filters: replaces the active filter set.
// The live metrics are zeroed until the next sampler tick.
func (s *CallServer) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Filters []model.Filter `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	for _, f := range in.Filters {
		if f.Key == "" {
			writeError(w, http.StatusBadRequest, "filter key is required")
			return
		}
	}

	s.mon.OnFilterChange(in.Filters)

	filters := s.mon.Filters()
	if filters == nil {
		filters = []model.Filter{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"filters": filters})
}

// handleGetMetrics handles GET /v1/metrics.
func (s *CallServer) handleGetMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mon.Metrics())
}

// handleGetColumns handles GET /v1/columns: the table schema.
func (s *CallServer) handleGetColumns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"columns": model.ColumnSpecs()})
}

// handleClear handles POST /v1/clear.
func (s *CallServer) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mon.OnClear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// parseFilterParams decodes repeated "column:value" filter params. A nil
// result means no explicit filters were given, which is distinct from an
// explicitly empty set.
func parseFilterParams(params []string) ([]model.Filter, error) {
	if len(params) == 0 {
		return nil, nil
	}
	filters := make([]model.Filter, 0, len(params))
	for _, p := range params {
		key, value, ok := strings.Cut(p, ":")
		if !ok || key == "" {
			return nil, inputError("invalid filter " + strconv.Quote(p) + " (expected column:value)")
		}
		filters = append(filters, model.Filter{Key: key, Value: value})
	}
	return filters, nil
}

// inputError indicates invalid user input. The transport maps it to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
