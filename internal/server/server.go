// Package server exposes the engine over HTTP: MCP tool calls on one
// endpoint, a status and guide API, and a WebSocket event stream. The
// stdio MCP transport shares the tool registration in this package.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcp "github.com/metoro-io/mcp-golang"

	config "github.com/paintmcp/paintd/config"
	engine "github.com/paintmcp/paintd/internal/engine"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// Server hosts the HTTP surface over one engine
type Server struct {
	cfg     *config.Config
	engine  *engine.Engine
	api     *APIHandler
	ws      *WSHandler
	bridge  *HandlerTransport
	handler http.Handler
	httpSrv *http.Server
}

// New assembles the HTTP surface and registers every engine command as an
// MCP tool on the bridge transport.
func New(cfg *config.Config, eng *engine.Engine, version string) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		engine: eng,
		api:    NewAPIHandler(eng, version),
		bridge: NewHandlerTransport(),
	}
	if cfg.Server.EnableWebSocket {
		s.ws = NewWSHandler(eng, cfg.Server.AllowedOrigins)
	}

	mcpServer := mcp.NewServer(s.bridge)
	if err := RegisterTools(mcpServer, eng); err != nil {
		return nil, fmt.Errorf("failed to register MCP tools: %w", err)
	}
	// installs the protocol handlers on the bridge; the bridge itself has
	// no listener to start, so this returns immediately
	if err := mcpServer.Serve(); err != nil {
		return nil, fmt.Errorf("failed to connect MCP protocol: %w", err)
	}

	s.handler = s.buildHandler()
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}
	return s, nil
}

func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.api.HandleHealth)
	mux.HandleFunc("/api/v1/status", s.api.HandleStatus)
	mux.HandleFunc("/api/v1/history", s.api.HandleHistory)
	mux.HandleFunc("/api/v1/guide", s.api.HandleGuide)
	mux.HandleFunc("/api/v1/guide/", s.api.HandleGuideTopic)
	mux.Handle(s.cfg.Server.MCPPath, s.bridge)
	if s.ws != nil {
		mux.HandleFunc("/ws", s.ws.HandleEvents)
	}

	return corsMiddleware(mux, s.cfg.Server.AllowedOrigins)
}

// Handler returns the composed HTTP handler; tests hit this directly
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// ListenAndServe blocks serving requests until Shutdown or failure
func (s *Server) ListenAndServe() error {
	logger.Info("starting server",
		"address", s.httpSrv.Addr,
		"mcp_path", s.cfg.Server.MCPPath,
		"websocket", s.ws != nil)
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// corsMiddleware mirrors the configured origin allowlist onto responses
func corsMiddleware(next http.Handler, origins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if originAllowed(origins, origin) {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if len(origins) > 0 {
				w.Header().Set("Access-Control-Allow-Origin", origins[0])
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origins []string, origin string) bool {
	for _, allowed := range origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
