// -----------------------------------------------------------------------
// PDF Splitter - copy each page of a PDF into its own file
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

// Splitter implements interfaces.PDFSplitter using pdfcpu
type Splitter struct {
	logger arbor.ILogger
}

var _ interfaces.PDFSplitter = (*Splitter)(nil)

// NewSplitter creates a new PDF splitter
func NewSplitter(logger arbor.ILogger) *Splitter {
	return &Splitter{logger: logger}
}

// PageFileName is the name of the n-th (1-based) split page
func PageFileName(n int, ext string) string {
	return "page_" + strconv.Itoa(n) + ext
}

// SplitPages writes one single-page PDF per page into outDir
func (s *Splitter) SplitPages(data []byte, outDir string) ([]string, error) {
	conf := model.NewDefaultConfiguration()

	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	files := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(i)}, conf); err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
		}

		path := filepath.Join(outDir, PageFileName(i, ".pdf"))
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write page %d: %w", i, err)
		}
		files = append(files, path)
	}

	s.logger.Debug().
		Int("page_count", pageCount).
		Str("out_dir", outDir).
		Msg("Split PDF into pages")

	return files, nil
}

// Metadata reads the page count and document info
func (s *Splitter) Metadata(data []byte) (*interfaces.PDFMetadata, error) {
	ctx, err := api.ReadAndValidate(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	return &interfaces.PDFMetadata{
		Title:     strings.TrimSpace(ctx.Title),
		Author:    strings.TrimSpace(ctx.Author),
		PageCount: ctx.PageCount,
	}, nil
}

// ExtractTitle returns the metadata title, or fallback when it is missing,
// empty or unreadable.
func (s *Splitter) ExtractTitle(data []byte, fallback string) string {
	meta, err := s.Metadata(data)
	if err != nil {
		s.logger.Debug().Err(err).Msg("PDF title unavailable, using file name")
		return fallback
	}
	if meta.Title == "" {
		return fallback
	}
	return meta.Title
}
