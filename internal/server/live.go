package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/liftlab/formcheck/internal/capture"
	"github.com/liftlab/formcheck/internal/detector"
	"github.com/liftlab/formcheck/internal/kinematics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler broadcasts real-time pose landmarks and joint angles via
// WebSocket so a client can mirror the lifter's position during a set.
type LiveHandler struct {
	detector detector.Detector
	source   capture.Source
	log      zerolog.Logger
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
}

// NewLiveHandler creates a new LiveHandler with the given detector and source.
func NewLiveHandler(d detector.Detector, src capture.Source, log zerolog.Logger) *LiveHandler {
	h := &LiveHandler{
		detector: d,
		source:   src,
		log:      log,
		clients:  make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends pose data to all connected clients.
func (h *LiveHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		mat, err := h.source.ReadFrame()
		if err != nil {
			continue
		}

		now := time.Now().UnixMilli()
		frame, found, err := h.detector.Detect(mat, now)
		mat.Close()
		if err != nil || !found {
			continue
		}

		angles := kinematics.Compute(&frame, kinematics.DefaultConfidenceThreshold)

		msg, _ := json.Marshal(map[string]any{
			"frame":     frame,
			"angles":    angles,
			"timestamp": now,
		})

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
