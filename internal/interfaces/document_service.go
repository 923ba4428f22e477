package interfaces

import (
	"context"

	"github.com/ternarybob/tenantlaw/internal/models"
)

// DocumentParser converts a document on disk into ordered text sections
// using an external parsing service.
type DocumentParser interface {
	// Parse uploads the file and waits for the parse job to finish.
	// Sections are returned in document order.
	Parse(ctx context.Context, filePath string) ([]models.ParsedSection, error)
}

// DocumentService turns uploaded bytes into a ProcessedDocument
type DocumentService interface {
	ProcessDocument(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error)
}

// TempFileCleaner removes day-stamped temporary directories past a retention window
type TempFileCleaner interface {
	CleanupOldFiles(daysToKeep int) (int, error)
}
