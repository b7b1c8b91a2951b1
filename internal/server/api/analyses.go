// Package api provides the HTTP API handlers for the form analysis service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/liftlab/formcheck/internal/analysis"
	"github.com/liftlab/formcheck/internal/pose"
	"github.com/liftlab/formcheck/internal/report"
	"github.com/liftlab/formcheck/internal/store"
)

// AnalysisHandler handles HTTP requests for analysis resources.
type AnalysisHandler struct {
	store  *store.Store
	engine *analysis.Engine
	log    zerolog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(s *store.Store, engine *analysis.Engine, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{store: s, engine: engine, log: log}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *AnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/analyses, /api/analyses/{id} or /api/analyses/{id}/report
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/analyses
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/report"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.report(w, r, id)
		return
	}

	// Item endpoint: /api/analyses/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createAnalysisRequest struct {
	Exercise string        `json:"exercise"`
	Source   string        `json:"source"`
	Frames   pose.Sequence `json:"frames"`
}

type analysisResponse struct {
	ID        string `json:"id"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at"`
	*analysis.FormAnalysis
}

type analysisSummary struct {
	ID           string  `json:"id"`
	Exercise     string  `json:"exercise"`
	OverallScore int     `json:"overall_score"`
	Confidence   float64 `json:"confidence_score"`
	Source       string  `json:"source,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type listAnalysesResponse struct {
	Analyses []analysisSummary `json:"analyses"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toSummary converts a store.Analysis to its listing form.
func toSummary(a *store.Analysis) analysisSummary {
	return analysisSummary{
		ID:           a.ID,
		Exercise:     a.Exercise,
		OverallScore: a.OverallScore,
		Confidence:   a.Confidence,
		Source:       a.Source,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// create handles POST /api/analyses: it runs the analysis pipeline on
// the submitted frames and stores the scored result.
func (h *AnalysisHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Exercise == "" {
		writeError(w, http.StatusBadRequest, "Exercise is required")
		return
	}

	result, err := h.engine.Analyze(r.Context(), req.Exercise, req.Frames)
	if err != nil {
		var unsupported *analysis.UnsupportedExerciseError
		var insufficient *analysis.InsufficientDataError
		switch {
		case errors.As(err, &unsupported):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &insufficient):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.log.Error().Err(err).Str("exercise", req.Exercise).Msg("analysis failed")
			writeError(w, http.StatusInternalServerError, "Analysis failed")
		}
		return
	}

	document, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode analysis")
		return
	}

	record := &store.Analysis{
		ID:           uuid.New().String(),
		Exercise:     result.Exercise,
		OverallScore: result.OverallScore,
		Confidence:   result.ConfidenceScore,
		Source:       req.Source,
		Document:     document,
	}

	if err := h.store.Analyses().Create(record); err != nil {
		h.log.Error().Err(err).Msg("failed to store analysis")
		writeError(w, http.StatusInternalServerError, "Failed to store analysis")
		return
	}

	writeJSON(w, http.StatusCreated, analysisResponse{
		ID:           record.ID,
		Source:       record.Source,
		CreatedAt:    record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		FormAnalysis: result,
	})
}

// list handles GET /api/analyses with optional exercise and limit query
// parameters.
func (h *AnalysisHandler) list(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	analyses, err := h.store.Analyses().List(exercise, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	response := listAnalysesResponse{
		Analyses: make([]analysisSummary, 0, len(analyses)),
	}
	for _, a := range analyses {
		response.Analyses = append(response.Analyses, toSummary(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/analyses/{id} and returns the full stored document.
func (h *AnalysisHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	record, result, ok := h.load(w, id)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		ID:           record.ID,
		Source:       record.Source,
		CreatedAt:    record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		FormAnalysis: result,
	})
}

// report handles GET /api/analyses/{id}/report and renders the stored
// analysis as an HTML score report.
func (h *AnalysisHandler) report(w http.ResponseWriter, r *http.Request, id string) {
	record, result, ok := h.load(w, id)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Render(w, record.ID, result); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("failed to render report")
	}
}

// delete handles DELETE /api/analyses/{id}.
func (h *AnalysisHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Analyses().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete analysis")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// load fetches a stored analysis and decodes its document, writing the
// error response itself when either step fails.
func (h *AnalysisHandler) load(w http.ResponseWriter, id string) (*store.Analysis, *analysis.FormAnalysis, bool) {
	record, err := h.store.Analyses().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		}
		return nil, nil, false
	}

	var result analysis.FormAnalysis
	if err := json.Unmarshal(record.Document, &result); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("stored analysis document is corrupt")
		writeError(w, http.StatusInternalServerError, "Stored analysis is unreadable")
		return nil, nil, false
	}

	return record, &result, true
}
