// Package assistant builds tenancy-law prompts and forwards them to the configured LLM provider.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

// LegalAssistant answers questions and analyzes contracts against a fixed law text
type LegalAssistant struct {
	provider interfaces.LLMProvider
	lawText  string
	logger   arbor.ILogger
}

var _ interfaces.AssistantService = (*LegalAssistant)(nil)

// NewLegalAssistant creates an assistant bound to one provider and law text
func NewLegalAssistant(provider interfaces.LLMProvider, lawText string, logger arbor.ILogger) *LegalAssistant {
	return &LegalAssistant{
		provider: provider,
		lawText:  lawText,
		logger:   logger,
	}
}

// LawText returns the reference text injected into every prompt
func (a *LegalAssistant) LawText() string {
	return a.lawText
}

// GetResponse answers query in the context of the formatted chat history
func (a *LegalAssistant) GetResponse(ctx context.Context, query, chatHistory string) (string, error) {
	startTime := time.Now()
	prompt := GeneratePrompt(query, a.lawText, chatHistory)

	response, err := a.provider.GetResponse(ctx, prompt)
	if err != nil {
		a.logger.Error().Err(err).Msg("Query failed")
		return "", fmt.Errorf("error processing query: %w", err)
	}

	a.logger.Info().
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Query answered")

	return response, nil
}

// AnalyzeContract returns the structured compliance report for contractText
func (a *LegalAssistant) AnalyzeContract(ctx context.Context, contractText string) (string, error) {
	startTime := time.Now()
	prompt := GenerateContractAnalysisPrompt(contractText, a.lawText)

	analysis, err := a.provider.GetResponse(ctx, prompt)
	if err != nil {
		a.logger.Error().Err(err).Msg("Contract analysis failed")
		return "", fmt.Errorf("error analyzing contract: %w", err)
	}

	a.logger.Info().
		Int("contract_chars", len(contractText)).
		Int("analysis_chars", len(analysis)).
		Dur("duration", time.Since(startTime)).
		Msg("Contract analyzed")

	return analysis, nil
}
