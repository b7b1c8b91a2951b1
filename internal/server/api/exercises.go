package api

import (
	"net/http"

	"github.com/liftlab/formcheck/internal/analysis"
)

// ExercisesHandler serves the list of exercises the engine can analyze.
type ExercisesHandler struct {
	registry *analysis.Registry
}

// NewExercisesHandler creates a new ExercisesHandler.
func NewExercisesHandler(registry *analysis.Registry) *ExercisesHandler {
	return &ExercisesHandler{registry: registry}
}

type listExercisesResponse struct {
	Exercises []string `json:"exercises"`
}

// ServeHTTP handles GET /api/exercises.
func (h *ExercisesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, listExercisesResponse{
		Exercises: h.registry.Exercises(),
	})
}
