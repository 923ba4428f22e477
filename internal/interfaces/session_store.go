package interfaces

import (
	"github.com/ternarybob/tenantlaw/internal/models"
)

// SessionStore keeps per-visit chat state in memory
type SessionStore interface {
	Create() *models.Session
	Get(id string) (*models.Session, bool)
	// GetOrCreate returns the named session, or a new one when id is empty or unknown
	GetOrCreate(id string) *models.Session
	AppendMessage(id string, role, content string) (*models.Session, error)
	AddDocument(id string, doc models.ProcessedDocument) error
	// Clear discards the session; its messages are not reused
	Clear(id string) bool
}
