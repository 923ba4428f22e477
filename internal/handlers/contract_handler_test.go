package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/models"
	"github.com/ternarybob/tenantlaw/internal/services/documents"
	"github.com/ternarybob/tenantlaw/internal/services/sessions"
)

func multipartUpload(t *testing.T, fileName string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newContractHandler(docs *mockDocumentService, assistant *mockAssistant, store *sessions.Store, reports *mockReportRenderer) *ContractHandler {
	return NewContractHandler(docs, assistant, store, reports, 1, arbor.NewLogger())
}

func TestUploadHandler_Success(t *testing.T) {
	docs := &mockDocumentService{
		processFunc: func(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error) {
			assert.Equal(t, "lease.pdf", fileName)
			assert.Equal(t, "%PDF-data", string(data))
			return &models.ProcessedDocument{Content: "Clause 1", FileName: fileName, NumPages: 1, DocType: models.DocumentTypePDF}, nil
		},
	}
	store := sessions.NewStore(arbor.NewLogger())
	session := store.Create()
	h := newContractHandler(docs, &mockAssistant{}, store, &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "lease.pdf", []byte("%PDF-data"), map[string]string{"session_id": session.ID}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Clause 1", body["content"])
	assert.Equal(t, "pdf", body["doc_type"])
	assert.Equal(t, float64(1), body["num_pages"])

	got, _ := store.Get(session.ID)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "lease.pdf", got.Documents[0].FileName)
}

func TestUploadHandler_RejectsUnsupportedType(t *testing.T) {
	docs := &mockDocumentService{}
	h := newContractHandler(docs, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "lease.rtf", []byte("data"), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, docs.calls)
}

func TestUploadHandler_TooLarge(t *testing.T) {
	docs := &mockDocumentService{}
	h := newContractHandler(docs, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "lease.pdf", bytes.Repeat([]byte("x"), 2<<20), nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, docs.calls)
}

func TestUploadHandler_FileAtLimitAccepted(t *testing.T) {
	docs := &mockDocumentService{
		processFunc: func(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error) {
			assert.Len(t, data, 1<<20)
			return &models.ProcessedDocument{Content: "Clause 1", FileName: fileName, NumPages: 1, DocType: models.DocumentTypePDF}, nil
		},
	}
	h := newContractHandler(docs, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "lease.pdf", bytes.Repeat([]byte("x"), 1<<20), map[string]string{"note": "signed copy"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, docs.calls)
}

func TestUploadHandler_FileOverLimitWithinBodyHeadroom(t *testing.T) {
	docs := &mockDocumentService{}
	h := newContractHandler(docs, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "lease.pdf", bytes.Repeat([]byte("x"), 1<<20+1), nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, docs.calls)
}

func TestUploadHandler_ProcessingError(t *testing.T) {
	docs := &mockDocumentService{
		processFunc: func(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error) {
			return nil, &documents.ProcessingError{Message: "failed to process document", Err: documents.ErrNoContent}
		},
	}
	h := newContractHandler(docs, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "lease.pdf", []byte("x"), nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "failed to process document: no content extracted from document", decodeBody(t, rec)["error"])
}

func TestUploadHandler_MissingFile(t *testing.T) {
	h := newContractHandler(&mockDocumentService{}, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("session_id", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler(t *testing.T) {
	var received string
	assistant := &mockAssistant{
		analyzeFunc: func(ctx context.Context, contractText string) (string, error) {
			received = contractText
			return "1. OVERALL ASSESSMENT", nil
		},
	}
	h := newContractHandler(&mockDocumentService{}, assistant, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.AnalyzeHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", strings.NewReader(`{"contract_text":"Rent $1500"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rent $1500", received)
	assert.Equal(t, "1. OVERALL ASSESSMENT", decodeBody(t, rec)["analysis"])

	rec = httptest.NewRecorder()
	h.AnalyzeHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", strings.NewReader(`{"contract_text":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_Failure(t *testing.T) {
	assistant := &mockAssistant{
		analyzeFunc: func(ctx context.Context, contractText string) (string, error) {
			return "", errors.New("error analyzing contract: boom")
		},
	}
	h := newContractHandler(&mockDocumentService{}, assistant, sessions.NewStore(arbor.NewLogger()), &mockReportRenderer{})

	rec := httptest.NewRecorder()
	h.AnalyzeHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", strings.NewReader(`{"contract_text":"x"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReportHandler(t *testing.T) {
	reports := &mockReportRenderer{}
	h := newContractHandler(&mockDocumentService{}, &mockAssistant{}, sessions.NewStore(arbor.NewLogger()), reports)
	body := `{"analysis":"## 1. OVERALL ASSESSMENT\nScore 7/10"}`

	rec := httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/report", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contract_analysis_report.txt")
	assert.Equal(t, "## 1. OVERALL ASSESSMENT\nScore 7/10", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/report?format=pdf", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contract_analysis_report.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Equal(t, "Contract Analysis Report", reports.title)

	rec = httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/report?format=docx", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest(http.MethodPost, "/api/contracts/report", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
