package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
)

const (
	reportTitle    = "Contract Analysis Report"
	reportBaseName = "contract_analysis_report"
)

// ContractHandler handles contract upload, analysis and report download
type ContractHandler struct {
	documentService interfaces.DocumentService
	assistant       interfaces.AssistantService
	sessions        interfaces.SessionStore
	reports         interfaces.ReportRenderer
	maxUploadBytes  int64
	logger          arbor.ILogger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(
	documentService interfaces.DocumentService,
	assistant interfaces.AssistantService,
	sessions interfaces.SessionStore,
	reports interfaces.ReportRenderer,
	maxUploadMB int,
	logger arbor.ILogger,
) *ContractHandler {
	return &ContractHandler{
		documentService: documentService,
		assistant:       assistant,
		sessions:        sessions,
		reports:         reports,
		maxUploadBytes:  int64(maxUploadMB) << 20,
		logger:          logger,
	}
}

const multipartOverhead = 1 << 20

// UploadHandler handles POST /api/contracts/upload (multipart field "file").
// With a session_id form value the processed document is kept on that session.
func (h *ContractHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// The body limit leaves room for multipart boundaries and headers;
	// the file itself is checked against maxUploadBytes below.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds upload limit")
			return
		}
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds upload limit")
		return
	}

	if _, ok := models.DocumentTypeFromName(header.Filename); !ok {
		WriteError(w, http.StatusBadRequest, "Unsupported file type. Supported formats: PDF, Word, and Text files")
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	h.logger.Info().
		Str("file", header.Filename).
		Int("bytes", buf.Len()).
		Msg("Processing contract upload")

	doc, err := h.documentService.ProcessDocument(r.Context(), buf.Bytes(), header.Filename)
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("Failed to process upload")
		WriteServiceError(w, err)
		return
	}

	if sessionID := r.FormValue("session_id"); sessionID != "" {
		if err := h.sessions.AddDocument(sessionID, *doc); err != nil {
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Upload not attached to session")
		}
	}

	WriteJSON(w, http.StatusOK, doc)
}

type analyzeRequest struct {
	ContractText string `json:"contract_text"`
}

// AnalyzeHandler handles POST /api/contracts/analyze
func (h *ContractHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ContractText) == "" {
		WriteError(w, http.StatusBadRequest, "contract_text is required")
		return
	}

	analysis, err := h.assistant.AnalyzeContract(r.Context(), req.ContractText)
	if err != nil {
		h.logger.Error().Err(err).Msg("Contract analysis failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"analysis": analysis,
	})
}

type reportRequest struct {
	Analysis string `json:"analysis"`
}

// ReportHandler handles POST /api/contracts/report?format=txt|pdf.
// The analysis is returned as a file attachment; txt is the default.
func (h *ContractHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req reportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Analysis) == "" {
		WriteError(w, http.StatusBadRequest, "analysis is required")
		return
	}

	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+reportBaseName+`.txt"`)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, req.Analysis)

	case "pdf":
		var buf bytes.Buffer
		if err := h.reports.RenderMarkdown(&buf, reportTitle, req.Analysis); err != nil {
			h.logger.Error().Err(err).Msg("Failed to render report PDF")
			WriteError(w, http.StatusInternalServerError, "Failed to render report")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+reportBaseName+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())

	default:
		WriteError(w, http.StatusBadRequest, "Unsupported report format: "+format)
	}
}
