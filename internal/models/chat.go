package models

import (
	"strings"
	"time"
)

// Message roles used in a chat session
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role      string    `json:"role"`    // user, assistant
	Content   string    `json:"content"` // raw text as typed or as returned by the model
	CreatedAt time.Time `json:"created_at"`
}

// Session is the lifetime of one interactive visit.
// Messages only ever grow; clearing a chat discards the whole session.
type Session struct {
	ID        string              `json:"id"`
	Messages  []ChatMessage       `json:"messages"`
	Documents []ProcessedDocument `json:"documents"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// FormatHistory renders messages as "role: content" lines
func FormatHistory(messages []ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
