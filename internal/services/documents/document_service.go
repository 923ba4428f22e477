package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
)

// Service turns uploaded bytes into a single text body
type Service struct {
	processor *Processor
	logger    arbor.ILogger
}

var _ interfaces.DocumentService = (*Service)(nil)

// NewService creates a new document service
func NewService(processor *Processor, logger arbor.ILogger) *Service {
	return &Service{
		processor: processor,
		logger:    logger,
	}
}

// Processor exposes the underlying split/parse pipeline
func (s *Service) Processor() *Processor {
	return s.processor
}

// ProcessDocument stores the upload in today's temp directory, parses it and
// joins the non-empty sections with a blank line. The temp file is always removed.
func (s *Service) ProcessDocument(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error) {
	doc, err := s.processDocument(ctx, data, fileName)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", fileName).Msg("Document processing failed")
		return nil, processingError("failed to process document", unwrapProcessing(err))
	}
	return doc, nil
}

func (s *Service) processDocument(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error) {
	docType, ok := models.DocumentTypeFromName(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileName)
	}
	if len(data) == 0 {
		return nil, ErrNoContent
	}

	baseDir, err := s.processor.BaseDir()
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	tmp, err := os.CreateTemp(baseDir, "upload-*"+strings.ToLower(filepath.Ext(fileName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	sections, err := s.processor.ParseDocuments(ctx, []string{tmpPath})
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrNoContent
	}

	texts := make([]string, 0, len(sections))
	for _, section := range sections {
		if text := strings.TrimSpace(section.Text); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return nil, ErrNoValidContent
	}

	s.logger.Info().
		Str("file", fileName).
		Str("type", string(docType)).
		Int("sections", len(texts)).
		Msg("Document processed")

	return &models.ProcessedDocument{
		Content:  strings.Join(texts, "\n\n"),
		FileName: fileName,
		NumPages: len(texts),
		DocType:  docType,
	}, nil
}

// unwrapProcessing strips one ProcessingError layer so messages don't repeat
func unwrapProcessing(err error) error {
	if pe, ok := err.(*ProcessingError); ok && pe.Err != nil && pe.Message == "" {
		return pe.Err
	}
	return err
}
