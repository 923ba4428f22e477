package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Message types sent to clients
const (
	WSTypeConnected = "connected"
	WSTypeThinking  = "thinking"
	WSTypeResponse  = "response"
	WSTypeError     = "error"
)

const wsWriteTimeout = 10 * time.Second

// WSMessage is every frame written to a chat client
type WSMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	// Unique ID per server startup - clients clear state on change
	ServerInstanceID string `json:"server_instance_id,omitempty"`
}

// WebSocketHandler runs chat turns over a WebSocket.
// Each inbound frame is a ChatRequest; turns on one connection are answered in order.
type WebSocketHandler struct {
	chatService      interfaces.ChatService
	logger           arbor.ILogger
	clients          map[*websocket.Conn]*sync.Mutex
	mu               sync.RWMutex
	serverInstanceID string
}

func NewWebSocketHandler(chatService interfaces.ChatService, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		chatService:      chatService,
		logger:           logger,
		clients:          make(map[*websocket.Conn]*sync.Mutex),
		serverInstanceID: uuid.New().String(),
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized with server instance ID")
	return h
}

// ClientCount returns the number of connected clients
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles GET /ws/chat
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	// Handle client disconnection
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	h.send(conn, WSMessage{Type: WSTypeConnected, ServerInstanceID: h.serverInstanceID})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}

		var req interfaces.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.send(conn, WSMessage{Type: WSTypeError, Error: "Invalid message"})
			continue
		}
		if strings.TrimSpace(req.Message) == "" {
			h.send(conn, WSMessage{Type: WSTypeError, SessionID: req.SessionID, Error: "Message field is required"})
			continue
		}

		h.send(conn, WSMessage{Type: WSTypeThinking, SessionID: req.SessionID})

		resp, err := h.chatService.Chat(r.Context(), &req)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to generate chat response")
			h.send(conn, WSMessage{Type: WSTypeError, SessionID: req.SessionID, Error: err.Error()})
			continue
		}

		h.send(conn, WSMessage{Type: WSTypeResponse, SessionID: resp.SessionID, Response: resp.Response})
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg WSMessage) {
	h.mu.RLock()
	mutex := h.clients[conn]
	h.mu.RUnlock()
	if mutex == nil {
		return
	}

	mutex.Lock()
	defer mutex.Unlock()

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
	}
}

// CloseAll closes every open client connection
func (h *WebSocketHandler) CloseAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.send(conn, WSMessage{Type: WSTypeError, Error: "server shutting down"})
		conn.Close()
	}
}
