package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
	"github.com/ternarybob/tenantlaw/internal/models"
)

// mockParser records every call and delegates to parseFn
type mockParser struct {
	parseFn func(ctx context.Context, filePath string) ([]models.ParsedSection, error)
	calls   []string
}

func (m *mockParser) Parse(ctx context.Context, filePath string) ([]models.ParsedSection, error) {
	m.calls = append(m.calls, filePath)
	if m.parseFn == nil {
		return nil, nil
	}
	return m.parseFn(ctx, filePath)
}

func sectionsOf(texts ...string) []models.ParsedSection {
	sections := make([]models.ParsedSection, len(texts))
	for i, text := range texts {
		sections[i] = models.ParsedSection{Index: i + 1, Text: text}
	}
	return sections
}

func buildPDF(t *testing.T, pages int, title string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	if title != "" {
		doc.SetTitle(title, true)
	}
	doc.SetFont("Arial", "", 12)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, fmt.Sprintf("Section %d", i))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func newTestProcessor(t *testing.T, parser *mockParser, opts ...ProcessorOption) *Processor {
	t.Helper()
	cfg := common.DocumentsConfig{
		TempDir:       filepath.Join(t.TempDir(), "temp_files"),
		RetentionDays: 7,
		ChunkSize:     1000,
		ChunkOverlap:  200,
	}
	p, err := NewProcessor(cfg, parser, nil, arbor.NewLogger(), opts...)
	require.NoError(t, err)
	return p
}

func TestNewProcessor_CreatesDayDirectory(t *testing.T) {
	now := time.Date(2026, 3, 9, 14, 0, 0, 0, time.Local)
	p := newTestProcessor(t, &mockParser{}, WithClock(fixedClock(now)))

	info, err := os.Stat(filepath.Join(p.TempRoot(), "2026-03-09"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewProcessor_RequiresParser(t *testing.T) {
	_, err := NewProcessor(common.DocumentsConfig{TempDir: t.TempDir()}, nil, nil, arbor.NewLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParserNotDefined))
}

func TestSplitDocumentPages_PDF(t *testing.T) {
	parser := &mockParser{}
	p := newTestProcessor(t, parser)

	doc := &models.DocumentFile{Data: buildPDF(t, 3, ""), Name: "lease.pdf", Type: models.DocumentTypePDF}
	set, err := p.SplitDocumentPages(context.Background(), doc)
	require.NoError(t, err)
	defer set.Close()

	require.Len(t, set.Files, 3)
	for i, f := range set.Files {
		assert.Equal(t, filepath.Join(set.Dir, fmt.Sprintf("page_%d.pdf", i+1)), f)
		count, err := api.PageCountFile(f)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}

	// No title in the metadata
	assert.Equal(t, "lease.pdf", doc.Title)
	assert.Empty(t, parser.calls)

	require.NoError(t, set.Close())
	_, err = os.Stat(set.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSplitDocumentPages_PDFTitle(t *testing.T) {
	p := newTestProcessor(t, &mockParser{})

	doc := &models.DocumentFile{Data: buildPDF(t, 1, "Standard Lease"), Name: "lease.pdf", Type: models.DocumentTypePDF}
	set, err := p.SplitDocumentPages(context.Background(), doc)
	require.NoError(t, err)
	defer set.Close()

	assert.Equal(t, "Standard Lease", doc.Title)

	// An explicit title is left alone
	doc = &models.DocumentFile{Data: buildPDF(t, 1, "Standard Lease"), Name: "lease.pdf", Type: models.DocumentTypePDF, Title: "Unit 4"}
	set2, err := p.SplitDocumentPages(context.Background(), doc)
	require.NoError(t, err)
	defer set2.Close()
	assert.Equal(t, "Unit 4", doc.Title)
}

func TestSplitDocumentPages_Word(t *testing.T) {
	parser := &mockParser{
		parseFn: func(ctx context.Context, filePath string) ([]models.ParsedSection, error) {
			assert.Equal(t, "complete.docx", filepath.Base(filePath))
			data, err := os.ReadFile(filePath)
			require.NoError(t, err)
			assert.Equal(t, "word bytes", string(data))
			return sectionsOf("first page", "second page"), nil
		},
	}
	p := newTestProcessor(t, parser)

	set, err := p.SplitDocumentPages(context.Background(), &models.DocumentFile{
		Data: []byte("word bytes"),
		Name: "lease.docx",
		Type: models.DocumentTypeWord,
	})
	require.NoError(t, err)
	defer set.Close()

	require.Len(t, set.Files, 2)
	assert.Len(t, parser.calls, 1)

	for i, want := range []string{"first page", "second page"} {
		assert.Equal(t, fmt.Sprintf("page_%d.docx", i+1), filepath.Base(set.Files[i]))
		data, err := os.ReadFile(set.Files[i])
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestSplitDocumentPages_Failures(t *testing.T) {
	parser := &mockParser{
		parseFn: func(ctx context.Context, filePath string) ([]models.ParsedSection, error) {
			return nil, errors.New("service unavailable")
		},
	}
	p := newTestProcessor(t, parser)

	tests := []struct {
		name string
		doc  *models.DocumentFile
	}{
		{"invalid pdf", &models.DocumentFile{Data: []byte("not a pdf"), Name: "x.pdf", Type: models.DocumentTypePDF}},
		{"parser failure", &models.DocumentFile{Data: []byte("doc"), Name: "x.docx", Type: models.DocumentTypeWord}},
		{"unsupported type", &models.DocumentFile{Data: []byte("text"), Name: "x.txt", Type: models.DocumentTypeText}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := p.SplitDocumentPages(context.Background(), tt.doc)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.True(t, IsProcessingError(err))
			assert.Contains(t, err.Error(), "document splitting failed")
		})
	}

	// Scoped directories from failed splits are removed
	baseDir, err := p.BaseDir()
	require.NoError(t, err)
	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseDocuments_EmptyInput(t *testing.T) {
	parser := &mockParser{}
	p := newTestProcessor(t, parser)

	for _, paths := range [][]string{nil, {}} {
		_, err := p.ParseDocuments(context.Background(), paths)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoFilePaths))
		assert.Equal(t, "file paths are required", err.Error())
	}
	assert.Empty(t, parser.calls)
}

func TestParseDocuments_SkipsFailures(t *testing.T) {
	parser := &mockParser{
		parseFn: func(ctx context.Context, filePath string) ([]models.ParsedSection, error) {
			switch filepath.Base(filePath) {
			case "a.pdf":
				return sectionsOf("alpha"), nil
			case "b.pdf":
				return nil, errors.New("parse failed")
			default:
				return sectionsOf("gamma", "delta"), nil
			}
		},
	}
	p := newTestProcessor(t, parser)

	sections, err := p.ParseDocuments(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, parser.calls)

	require.Len(t, sections, 3)
	assert.Equal(t, "alpha", sections[0].Text)
	assert.Equal(t, "gamma", sections[1].Text)
	assert.Equal(t, "delta", sections[2].Text)
}

func TestParseDocuments_AllFail(t *testing.T) {
	parser := &mockParser{
		parseFn: func(ctx context.Context, filePath string) ([]models.ParsedSection, error) {
			return nil, errors.New("parse failed")
		},
	}
	p := newTestProcessor(t, parser)

	sections, err := p.ParseDocuments(context.Background(), []string{"a.pdf", "b.pdf"})
	require.NoError(t, err)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestParseDocuments_Cancelled(t *testing.T) {
	parser := &mockParser{}
	p := newTestProcessor(t, parser)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ParseDocuments(ctx, []string{"a.pdf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, parser.calls)
}

func TestCleanupOldFiles(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 30, 0, 0, time.Local)
	p := newTestProcessor(t, &mockParser{}, WithClock(fixedClock(now)))
	root := p.TempRoot()

	mkdir := func(name string) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name, "split-1"), 0755))
	}
	mkdir("2026-03-10") // 10 days old
	mkdir("2026-02-01")
	mkdir("2026-03-19") // 1 day old
	mkdir("notes")
	mkdir(".gitkeep")
	require.NoError(t, os.WriteFile(filepath.Join(root, "2026-01-01"), []byte("file"), 0644))

	removed, err := p.CleanupOldFiles(7)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, name := range []string{"2026-03-10", "2026-02-01"} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.True(t, os.IsNotExist(err), name)
	}
	for _, name := range []string{"2026-03-19", "2026-03-20", "notes", ".gitkeep", "2026-01-01"} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.NoError(t, err, name)
	}
}

func TestCleanupOldFiles_MissingRoot(t *testing.T) {
	p := newTestProcessor(t, &mockParser{})
	require.NoError(t, os.RemoveAll(p.TempRoot()))

	removed, err := p.CleanupOldFiles(7)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestCleanupOldFiles_InvalidDays(t *testing.T) {
	p := newTestProcessor(t, &mockParser{})
	_, err := p.CleanupOldFiles(0)
	assert.Error(t, err)
}

func TestReadDocumentBytes(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0644))
		return path
	}

	tests := []struct {
		name string
		want models.DocumentType
	}{
		{"lease.pdf", models.DocumentTypePDF},
		{"lease.PDF", models.DocumentTypePDF},
		{"lease.docx", models.DocumentTypeWord},
		{"lease.doc", models.DocumentTypeWord},
	}
	for _, tt := range tests {
		data, docType, err := ReadDocumentBytes(write(tt.name))
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, docType, tt.name)
		assert.Equal(t, "content of "+tt.name, string(data))
	}

	_, _, err := ReadDocumentBytes(write("lease.rtf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	_, _, err = ReadDocumentBytes(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read document file")
}
