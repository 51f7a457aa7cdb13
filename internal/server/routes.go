package server

import (
	"encoding/json"
	"net/http"

	"github.com/bobmcallan/gong-mcp/internal/config"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// setupRoutes builds the router: the MCP endpoint plus health and version endpoints.
func (s *Server) setupRoutes(mcpSrv *mcpserver.MCPServer) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(s.correlationIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithStateLess(true))
	r.With(maxBodySizeMiddleware(maxRequestBody)).Handle("/mcp", streamable)

	r.Get("/api/health", handleHealth)
	r.Get("/api/version", handleVersion)

	return r
}

// handleHealth handles GET /api/health.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion handles GET /api/version.
func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    config.GetVersion(),
		"build":      config.GetBuild(),
		"git_commit": config.GetGitCommit(),
	})
}

// writeJSON writes a JSON response with the specified status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}
