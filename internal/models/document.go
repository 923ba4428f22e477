package models

import (
	"path/filepath"
	"strings"
)

// DocumentType is the declared format of an uploaded document
type DocumentType string

const (
	DocumentTypePDF  DocumentType = "pdf"
	DocumentTypeWord DocumentType = "docx"
	DocumentTypeText DocumentType = "txt"
)

// DocumentTypeFromName maps a file name onto a document type by extension.
// ok is false for extensions the pipeline does not accept.
func DocumentTypeFromName(name string) (DocumentType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return DocumentTypePDF, true
	case ".docx", ".doc":
		return DocumentTypeWord, true
	case ".txt":
		return DocumentTypeText, true
	default:
		return "", false
	}
}

// DocumentFile is an uploaded document before parsing
type DocumentFile struct {
	Data  []byte       `json:"-"`
	Name  string       `json:"name"`
	Type  DocumentType `json:"type"`
	Title string       `json:"title,omitempty"` // filled from PDF metadata when empty
}

// ParsedSection is one ordered text section returned by the parsing service
type ParsedSection struct {
	Index  int    `json:"index"` // 1-based, in document order
	Text   string `json:"text"`
	Source string `json:"source,omitempty"` // path of the parsed file
}

// ProcessedDocument is the combined text of a parsed upload
type ProcessedDocument struct {
	Content  string       `json:"content"`
	FileName string       `json:"file_name"`
	NumPages int          `json:"num_pages"` // number of non-empty sections
	DocType  DocumentType `json:"doc_type"`
}
