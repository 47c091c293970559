package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	domain "github.com/paintmcp/paintd/internal/domain"
	engine "github.com/paintmcp/paintd/internal/engine"
	guide "github.com/paintmcp/paintd/internal/guide"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// APIHandler serves the status and guide endpoints
type APIHandler struct {
	engine  *engine.Engine
	version string
	started time.Time
}

// NewAPIHandler creates the status API over an engine
func NewAPIHandler(eng *engine.Engine, version string) *APIHandler {
	return &APIHandler{
		engine:  eng,
		version: version,
		started: time.Now(),
	}
}

// writeJSON writes a JSON response and logs encoding failures
func (h *APIHandler) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// HandleHealth handles GET /health
func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.engine.Journal().Health(ctx); err != nil {
		logger.Error("journal health check failed", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleStatus handles GET /api/v1/status
func (h *APIHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]any{
		"server_version":   h.version,
		"protocol_version": domain.ProtocolVersion,
		"session_state":    h.engine.Sessions().State().String(),
		"tool_state":       h.engine.Tracker().Believed(),
		"commands":         len(h.engine.Commands()),
		"uptime_seconds":   int(time.Since(h.started).Seconds()),
	}

	if s := h.engine.Sessions().Current(); s != nil {
		docW, docH := s.DocSize()
		status["paint_version"] = s.PaintVersion
		status["canvas"] = map[string]int{"width": docW, "height": docH}
	}

	if err := h.engine.Journal().Health(ctx); err != nil {
		status["journal"] = err.Error()
	} else {
		status["journal"] = "ok"
	}

	h.writeJSON(w, http.StatusOK, status)
}

// HandleHistory handles GET /api/v1/history
func (h *APIHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	entries, err := h.engine.Journal().List(ctx, limit, offset)
	if err != nil {
		logger.Error("failed to list journal entries", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": fmt.Sprintf("Failed to list history: %v", err),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
		"limit":   limit,
		"offset":  offset,
	})
}

// HandleGuide handles GET /api/v1/guide
func (h *APIHandler) HandleGuide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"overview": guide.Overview(),
		"topics":   guide.Topics(),
	})
}

// HandleGuideTopic handles GET /api/v1/guide/:command
func (h *APIHandler) HandleGuideTopic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/guide/")
	if name == "" {
		h.HandleGuide(w, r)
		return
	}

	topic, ok := guide.For(name)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]any{
			"error": fmt.Sprintf("Unknown command: %s", name),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, topic)
}
