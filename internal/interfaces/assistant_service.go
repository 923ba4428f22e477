package interfaces

import (
	"context"
)

// AssistantService answers tenancy questions and analyzes rental contracts
type AssistantService interface {
	// GetResponse answers a query given the formatted chat history
	GetResponse(ctx context.Context, query, chatHistory string) (string, error)

	// AnalyzeContract produces a structured compliance report for a contract
	AnalyzeContract(ctx context.Context, contractText string) (string, error)
}
