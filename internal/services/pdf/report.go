package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	baseFont     = "Arial"
	baseFontSize = 10.0
	lineHeight   = 5.0
)

// ReportRenderer renders a markdown analysis report as an A4 PDF
type ReportRenderer struct {
	logger arbor.ILogger
}

var _ interfaces.ReportRenderer = (*ReportRenderer)(nil)

// NewReportRenderer creates a new report renderer
func NewReportRenderer(logger arbor.ILogger) *ReportRenderer {
	return &ReportRenderer{logger: logger}
}

// RenderMarkdown writes the markdown body as a PDF to w.
// The title is stored in the document info and printed as the page header.
func (s *ReportRenderer) RenderMarkdown(w io.Writer, title, markdown string) error {
	s.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Rendering report PDF")

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.SetTitle(title, true)
	doc.SetCreator("TenantLaw", true)

	// Core fonts are cp1252; model output is UTF-8
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	if title != "" {
		doc.SetFont(baseFont, "B", 16)
		doc.MultiCell(0, 8, tr(title), "", "L", false)
		doc.Ln(4)
	}
	doc.SetFont(baseFont, "", baseFontSize)

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	r := &reportWriter{doc: doc, source: source, tr: tr}
	if err := ast.Walk(root, r.walk); err != nil {
		return fmt.Errorf("failed to layout report: %w", err)
	}

	if err := doc.Output(w); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write report PDF")
		return fmt.Errorf("failed to write report PDF: %w", err)
	}
	return nil
}

type reportWriter struct {
	doc       *fpdf.Fpdf
	source    []byte
	tr        func(string) string
	bold      bool
	italic    bool
	listDepth int
}

func (r *reportWriter) setStyle() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.doc.SetFont(baseFont, style, baseFontSize)
}

func (r *reportWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.doc.Ln(3)
			size := 13.0 - float64(node.Level)
			if size < baseFontSize {
				size = baseFontSize
			}
			r.doc.SetFont(baseFont, "B", size)
		} else {
			r.doc.Ln(7)
			r.setStyle()
		}
	case *ast.Paragraph:
		if !entering {
			r.doc.Ln(lineHeight + 1)
		}
	case *ast.TextBlock:
		if !entering {
			r.doc.Ln(lineHeight)
		}
	case *ast.Text:
		if entering {
			r.doc.Write(lineHeight, r.tr(string(node.Segment.Value(r.source))))
			if node.SoftLineBreak() {
				r.doc.Write(lineHeight, " ")
			}
			if node.HardLineBreak() {
				r.doc.Ln(lineHeight)
			}
		}
	case *ast.Emphasis:
		if node.Level >= 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.setStyle()
	case *ast.CodeSpan:
		if entering {
			r.doc.SetFont("Courier", "", baseFontSize)
			r.doc.Write(lineHeight, r.tr(string(node.Text(r.source))))
			r.setStyle()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			r.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			r.listDepth++
		} else {
			r.listDepth--
			if r.listDepth == 0 {
				r.doc.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			r.doc.SetX(15 + float64(r.listDepth)*5)
			r.doc.Write(lineHeight, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			y := r.doc.GetY() + 2
			r.doc.Line(15, y, 195, y)
			r.doc.Ln(4)
		}
	case *extast.Table:
		if entering {
			r.table(node)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (r *reportWriter) codeBlock(lines *text.Segments) {
	r.doc.SetFont("Courier", "", 9)
	r.doc.SetFillColor(245, 245, 245)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.doc.MultiCell(0, lineHeight, r.tr(strings.TrimRight(string(line.Value(r.source)), "\n")), "", "L", true)
	}
	r.doc.SetFillColor(255, 255, 255)
	r.setStyle()
	r.doc.Ln(2)
}

// table lays out each row as a single wrapped line of cells separated by bars
func (r *reportWriter) table(t *extast.Table) {
	var rows [][]string
	var collect func(node ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.(type) {
			case *extast.TableHeader, *extast.TableRow:
				var cells []string
				for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
					cells = append(cells, strings.TrimSpace(string(cell.Text(r.source))))
				}
				rows = append(rows, cells)
			}
		}
	}
	collect(t)

	for i, row := range rows {
		if i == 0 {
			r.doc.SetFont(baseFont, "B", baseFontSize)
		}
		r.doc.MultiCell(0, lineHeight, r.tr(strings.Join(row, " | ")), "B", "L", false)
		if i == 0 {
			r.setStyle()
		}
	}
	r.doc.Ln(2)
}
