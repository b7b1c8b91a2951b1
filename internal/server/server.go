// Package server provides the HTTP server for the form analysis service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/liftlab/formcheck/internal/analysis"
	"github.com/liftlab/formcheck/internal/capture"
	"github.com/liftlab/formcheck/internal/detector"
	"github.com/liftlab/formcheck/internal/server/api"
	"github.com/liftlab/formcheck/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Source    capture.Source
	Detector  detector.Detector
	Engine    *analysis.Engine
	Registry  *analysis.Registry
	Log       zerolog.Logger
}

// Server represents the HTTP server for the form analysis service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register analysis API handlers if Store and Engine are configured
	if s.config.Store != nil && s.config.Engine != nil {
		analysisHandler := api.NewAnalysisHandler(s.config.Store, s.config.Engine, s.config.Log)
		s.mux.Handle("/api/analyses", analysisHandler)
		s.mux.Handle("/api/analyses/", analysisHandler)
	}

	if s.config.Registry != nil {
		s.mux.Handle("/api/exercises", api.NewExercisesHandler(s.config.Registry))
	}

	// Register video stream endpoint if a Source is configured
	if s.config.Source != nil {
		streamHandler := NewStreamHandler(s.config.Source)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Register live pose WebSocket endpoint if Source and Detector are configured
	if s.config.Source != nil && s.config.Detector != nil {
		liveHandler := NewLiveHandler(s.config.Detector, s.config.Source, s.config.Log)
		s.mux.Handle("/api/live", liveHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
