package handlers

import (
	"context"
	"io"

	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
)

type mockChatService struct {
	chatFunc func(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error)
	requests []interfaces.ChatRequest
}

func (m *mockChatService) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	m.requests = append(m.requests, *req)
	return m.chatFunc(ctx, req)
}

type mockDocumentService struct {
	processFunc func(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error)
	calls       int
}

func (m *mockDocumentService) ProcessDocument(ctx context.Context, data []byte, fileName string) (*models.ProcessedDocument, error) {
	m.calls++
	return m.processFunc(ctx, data, fileName)
}

type mockAssistant struct {
	analyzeFunc func(ctx context.Context, contractText string) (string, error)
}

func (m *mockAssistant) GetResponse(ctx context.Context, query, chatHistory string) (string, error) {
	return "", nil
}

func (m *mockAssistant) AnalyzeContract(ctx context.Context, contractText string) (string, error) {
	return m.analyzeFunc(ctx, contractText)
}

type mockReportRenderer struct {
	title    string
	markdown string
}

func (m *mockReportRenderer) RenderMarkdown(w io.Writer, title, markdown string) error {
	m.title = title
	m.markdown = markdown
	_, err := io.WriteString(w, "%PDF-1.3 fake")
	return err
}

type mockCleaner struct {
	days    []int
	removed int
	err     error
}

func (m *mockCleaner) CleanupOldFiles(daysToKeep int) (int, error) {
	m.days = append(m.days, daysToKeep)
	return m.removed, m.err
}
