// -----------------------------------------------------------------------
// PDF Service Interfaces - page splitting and report rendering
// -----------------------------------------------------------------------

package interfaces

import (
	"io"
)

// PDFMetadata contains metadata about a PDF document
type PDFMetadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	PageCount int    `json:"page_count"`
}

// PDFSplitter copies each page of a PDF into its own single-page file
type PDFSplitter interface {
	// SplitPages writes page_1.pdf ... page_N.pdf into outDir and returns their paths in order
	SplitPages(data []byte, outDir string) ([]string, error)

	// Metadata reads document info without touching page content
	Metadata(data []byte) (*PDFMetadata, error)

	// ExtractTitle returns the metadata title, falling back on any failure
	ExtractTitle(data []byte, fallback string) string
}

// ReportRenderer converts markdown into a downloadable PDF
type ReportRenderer interface {
	RenderMarkdown(w io.Writer, title, markdown string) error
}
