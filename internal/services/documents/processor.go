package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
	"github.com/ternarybob/tenantlaw/internal/services/pdf"
)

const dayLayout = "2006-01-02"

// PageSet is the output of a split: page files in order inside a scoped directory.
// The caller owns Dir and must Close it when done.
type PageSet struct {
	Dir   string
	Files []string
}

// Close removes the scoped directory and every page file in it
func (p *PageSet) Close() error {
	if p == nil || p.Dir == "" {
		return nil
	}
	return os.RemoveAll(p.Dir)
}

// Processor splits and parses uploaded documents.
// Temporary files live under <temp_root>/<YYYY-MM-DD>.
type Processor struct {
	tempRoot     string
	parser       interfaces.DocumentParser
	splitter     interfaces.PDFSplitter
	chunkSize    int
	chunkOverlap int
	now          func() time.Time
	logger       arbor.ILogger
}

var _ interfaces.TempFileCleaner = (*Processor)(nil)

// ProcessorOption configures the Processor
type ProcessorOption func(*Processor)

// WithClock overrides the time source used for day-stamped directories
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor creates a processor and the day-stamped temp directory
func NewProcessor(
	cfg common.DocumentsConfig,
	parser interfaces.DocumentParser,
	splitter interfaces.PDFSplitter,
	logger arbor.ILogger,
	opts ...ProcessorOption,
) (*Processor, error) {
	if parser == nil {
		return nil, processingError("", ErrParserNotDefined)
	}
	if splitter == nil {
		splitter = pdf.NewSplitter(logger)
	}

	p := &Processor{
		tempRoot:     cfg.TempDir,
		parser:       parser,
		splitter:     splitter,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	baseDir, err := p.BaseDir()
	if err != nil {
		return nil, processingError("failed to create temp directory", err)
	}

	logger.Debug().
		Str("temp_dir", baseDir).
		Int("chunk_size", p.chunkSize).
		Int("chunk_overlap", p.chunkOverlap).
		Msg("Document processor initialized")

	return p, nil
}

// TempRoot is the directory holding the day-stamped directories
func (p *Processor) TempRoot() string {
	return p.tempRoot
}

// BaseDir returns today's temp directory, creating it when absent
func (p *Processor) BaseDir() (string, error) {
	dir := filepath.Join(p.tempRoot, p.now().Format(dayLayout))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// SplitDocumentPages writes one file per page into a new scoped directory.
// When doc.Title is empty it is set from PDF metadata or the file name.
func (p *Processor) SplitDocumentPages(ctx context.Context, doc *models.DocumentFile) (*PageSet, error) {
	set, err := p.splitDocumentPages(ctx, doc)
	if err != nil {
		return nil, processingError("document splitting failed", err)
	}
	return set, nil
}

func (p *Processor) splitDocumentPages(ctx context.Context, doc *models.DocumentFile) (*PageSet, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}

	baseDir, err := p.BaseDir()
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(baseDir, "split-")
	if err != nil {
		return nil, err
	}

	var files []string
	switch doc.Type {
	case models.DocumentTypePDF:
		files, err = p.splitPDFPages(doc, dir)
	case models.DocumentTypeWord:
		files, err = p.splitWordPages(ctx, doc, dir)
	default:
		err = fmt.Errorf("unsupported document type: %q", doc.Type)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	p.logger.Debug().
		Str("name", doc.Name).
		Str("type", string(doc.Type)).
		Int("pages", len(files)).
		Str("dir", dir).
		Msg("Document split into pages")

	return &PageSet{Dir: dir, Files: files}, nil
}

func (p *Processor) splitPDFPages(doc *models.DocumentFile, dir string) ([]string, error) {
	if doc.Title == "" {
		doc.Title = p.splitter.ExtractTitle(doc.Data, doc.Name)
	}
	return p.splitter.SplitPages(doc.Data, dir)
}

// splitWordPages hands the whole document to the parser; each returned
// section is written verbatim to its own page file.
func (p *Processor) splitWordPages(ctx context.Context, doc *models.DocumentFile, dir string) ([]string, error) {
	complete := filepath.Join(dir, "complete.docx")
	if err := os.WriteFile(complete, doc.Data, 0644); err != nil {
		return nil, err
	}

	sections, err := p.parser.Parse(ctx, complete)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(sections))
	for i, section := range sections {
		path := filepath.Join(dir, pdf.PageFileName(i+1, ".docx"))
		if err := os.WriteFile(path, []byte(section.Text), 0644); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// ParseDocuments parses each file in order. A file that fails to parse is
// logged and skipped; the batch carries on with the rest.
func (p *Processor) ParseDocuments(ctx context.Context, filePaths []string) ([]models.ParsedSection, error) {
	if len(filePaths) == 0 {
		return nil, processingError("", ErrNoFilePaths)
	}

	sections := []models.ParsedSection{}
	for _, path := range filePaths {
		if err := ctx.Err(); err != nil {
			return nil, processingError("document parsing failed", err)
		}

		parsed, err := p.parser.Parse(ctx, path)
		if err != nil {
			p.logger.Warn().
				Err(err).
				Str("file", filepath.Base(path)).
				Msg("Failed to parse document, skipping")
			continue
		}
		sections = append(sections, parsed...)
	}

	p.logger.Debug().
		Int("files", len(filePaths)).
		Int("sections", len(sections)).
		Msg("Parsed documents")

	return sections, nil
}

// CleanupOldFiles removes day-stamped directories older than daysToKeep
func (p *Processor) CleanupOldFiles(daysToKeep int) (int, error) {
	return CleanupOldFiles(p.tempRoot, daysToKeep, p.now(), p.logger)
}

// CleanupOldFiles removes directories under tempRoot named YYYY-MM-DD whose
// date is before now minus daysToKeep. Entries whose name is not a date are
// never touched. A missing tempRoot removes nothing.
func CleanupOldFiles(tempRoot string, daysToKeep int, now time.Time, logger arbor.ILogger) (int, error) {
	// Zero would sweep today's directory while uploads may be using it
	if daysToKeep < 1 {
		return 0, fmt.Errorf("days to keep must be at least 1, got %d", daysToKeep)
	}

	entries, err := os.ReadDir(tempRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read temp directory: %w", err)
	}

	cutoff := now.AddDate(0, 0, -daysToKeep)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".gitkeep" {
			continue
		}
		dirDate, err := time.ParseInLocation(dayLayout, entry.Name(), now.Location())
		if err != nil {
			continue
		}
		if !dirDate.Before(cutoff) {
			continue
		}

		path := filepath.Join(tempRoot, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn().Err(err).Str("dir", path).Msg("Failed to remove temp directory")
			continue
		}
		removed++
	}

	logger.Info().
		Int("removed", removed).
		Int("days_to_keep", daysToKeep).
		Msg("Temp directory cleanup complete")

	return removed, nil
}

// ReadDocumentBytes reads a document from disk and infers its type from the extension
func ReadDocumentBytes(filePath string) ([]byte, models.DocumentType, error) {
	var docType models.DocumentType
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		docType = models.DocumentTypePDF
	case ".docx", ".doc":
		docType = models.DocumentTypeWord
	default:
		return nil, "", processingError("failed to read document file", fmt.Errorf("%w: %s", ErrUnsupportedType, filePath))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", processingError("failed to read document file", err)
	}
	return data, docType, nil
}
