package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket chat
	mux.HandleFunc("/ws/chat", s.app.WSHandler.HandleWebSocket)

	// API routes - Chat sessions
	mux.HandleFunc("/api/sessions", s.app.ChatHandler.CreateSessionHandler) // POST - new session
	mux.HandleFunc("/api/sessions/", s.handleSessionRoutes)                 // GET/DELETE /{id}
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)

	// API routes - Contracts
	mux.HandleFunc("/api/contracts/upload", s.app.ContractHandler.UploadHandler)
	mux.HandleFunc("/api/contracts/analyze", s.app.ContractHandler.AnalyzeHandler)
	mux.HandleFunc("/api/contracts/report", s.app.ContractHandler.ReportHandler)

	// API routes - Maintenance
	mux.HandleFunc("/api/maintenance/cleanup", s.app.MaintenanceHandler.CleanupHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleSessionRoutes routes /api/sessions/{id} by method
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r,
		s.app.ChatHandler.GetSessionHandler,
		nil,
		s.app.ChatHandler.ClearSessionHandler,
	)
}
