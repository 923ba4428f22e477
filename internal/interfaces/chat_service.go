package interfaces

import (
	"context"
)

// ChatRequest is one user turn within a session
type ChatRequest struct {
	// Session to continue; empty or unknown starts a new one
	SessionID string `json:"session_id,omitempty"`

	// User's message
	Message string `json:"message"`
}

// ChatResponse is the assistant's reply to one turn
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// ChatService runs a chat turn against the session history
type ChatService interface {
	// Chat appends the user message, asks the assistant with the full history
	// and appends the reply on success
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
