package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
)

// ErrEmptyMessage is returned for a blank user message
var ErrEmptyMessage = errors.New("message is required")

// ChatService keeps session history and forwards each turn to the assistant
type ChatService struct {
	assistant interfaces.AssistantService
	sessions  interfaces.SessionStore
	logger    arbor.ILogger
}

var _ interfaces.ChatService = (*ChatService)(nil)

// NewChatService creates a new chat service
func NewChatService(
	assistant interfaces.AssistantService,
	sessions interfaces.SessionStore,
	logger arbor.ILogger,
) *ChatService {
	return &ChatService{
		assistant: assistant,
		sessions:  sessions,
		logger:    logger,
	}
}

// Chat implements the ChatService interface.
// The history sent to the model includes the message being asked. A failed
// turn keeps the user message and records no reply.
func (s *ChatService) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	startTime := time.Now()
	session := s.sessions.GetOrCreate(req.SessionID)

	session, err := s.sessions.AppendMessage(session.ID, models.RoleUser, req.Message)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", session.ID).
		Int("message_length", len(req.Message)).
		Int("history_messages", len(session.Messages)).
		Msg("Processing chat request")

	response, err := s.assistant.GetResponse(ctx, req.Message, models.FormatHistory(session.Messages))
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.AppendMessage(session.ID, models.RoleAssistant, response); err != nil {
		// Session was cleared while the model was answering
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("Reply not recorded")
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Dur("duration", time.Since(startTime)).
		Msg("Chat turn completed")

	return &interfaces.ChatResponse{
		SessionID: session.ID,
		Response:  response,
	}, nil
}
