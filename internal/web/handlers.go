package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vegasq/databoard/internal/etl"
	"github.com/vegasq/databoard/internal/logging"
	"github.com/vegasq/databoard/internal/query"
	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// pathRequest carries a file path argument.
type pathRequest struct {
	Path string `json:"path"`
}

// mappingRequest carries the column→kind mapping, kinds as wire codes.
type mappingRequest struct {
	Columns map[string]int `json:"columns"`
}

// queryResponse pairs result column order with row records.
type queryResponse struct {
	Columns []string         `json:"columns"`
	Records []map[string]any `json:"records"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{
		"dataset_id": s.session.ID().String(),
		"rows":       s.session.Count(),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Load(req.Path); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, true)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]int{"count": s.session.Count()})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{"columns": s.session.Describe()})
}

func (s *Server) handleUnique(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")

	s.mu.Lock()
	defer s.mu.Unlock()
	vals, err := s.session.Unique(column)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Scalar()
	}
	writeJSON(w, out)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	count := intQueryParam(r, "count", 10)

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.session.Preview(count).Rows())
}

func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	mapping := make(map[string]value.Kind, len(req.Columns))
	for name, code := range req.Columns {
		mapping[name] = value.KindFromCode(code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Normalize(mapping); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, true)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var q query.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	preview, err := s.session.Query(q)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, queryResponse{
		Columns: preview.ColumnNames(),
		Records: preview.Rows(),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := intQueryParam(r, "start", 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.session.Page(start, PageSize).Rows())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Export(req.Path); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, true)
}

// statusFor maps engine errors to HTTP statuses: unknown columns are
// 404, configuration errors are 400, everything else is 500.
func statusFor(err error) int {
	var notFound *table.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var missing *etl.MissingMappingError
	var unsupported *etl.UnsupportedCoercionError
	var notImpl *query.NotImplementedError
	if errors.As(err, &missing) || errors.As(err, &unsupported) || errors.As(err, &notImpl) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// intQueryParam reads an integer query parameter with a fallback.
func intQueryParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left but to log it.
		slog.Error("json encode failed", "error", err)
	}
}

// writeError writes a JSON error body and logs the failure.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logging.FromContext(r.Context()).Warn("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
