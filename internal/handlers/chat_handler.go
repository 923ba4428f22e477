package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

// ChatHandler handles chat and session HTTP requests
type ChatHandler struct {
	chatService interfaces.ChatService
	sessions    interfaces.SessionStore
	logger      arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	chatService interfaces.ChatService,
	sessions interfaces.SessionStore,
	logger arbor.ILogger,
) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sessions:    sessions,
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat requests
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "Message field is required")
		return
	}

	response, err := h.chatService.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate chat response")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, response)
}

// CreateSessionHandler handles POST /api/sessions
func (h *ChatHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	session := h.sessions.Create()
	WriteJSON(w, http.StatusCreated, map[string]string{
		"session_id": session.ID,
	})
}

// GetSessionHandler handles GET /api/sessions/{id}
func (h *ChatHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r, "/api/sessions/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, ok := h.sessions.Get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "Session not found")
		return
	}

	WriteJSON(w, http.StatusOK, session)
}

// ClearSessionHandler handles DELETE /api/sessions/{id}
func (h *ChatHandler) ClearSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r, "/api/sessions/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	if !h.sessions.Clear(id) {
		WriteError(w, http.StatusNotFound, "Session not found")
		return
	}

	h.logger.Info().Str("session_id", id).Msg("Chat cleared")
	WriteSuccess(w, "Chat cleared")
}
