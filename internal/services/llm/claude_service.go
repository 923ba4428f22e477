package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
)

const defaultClaudeMaxTokens = 2000

// ClaudeService implements LLMProvider using the Anthropic Messages API
type ClaudeService struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature *float64
	system      string
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewClaudeService creates a new Claude adapter.
// SDK retries are disabled; a failed call surfaces to the caller as is.
func NewClaudeService(apiKey string, cfg common.ProviderConfig, logger arbor.ILogger, opts ...Option) (*ClaudeService, error) {
	if apiKey == "" {
		return nil, &common.ConfigError{Field: "anthropic.api_key", Message: "Anthropic API key not found"}
	}

	o := buildOptions(opts)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(o.httpClient),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	s := &ClaudeService{
		client:      anthropic.NewClient(clientOpts...),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		system:      cfg.SystemMessage,
		timeout:     o.timeout,
		logger:      logger,
	}

	logger.Debug().
		Str("model", s.model).
		Dur("timeout", s.timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude LLM service initialized")

	return s, nil
}

// GetResponse sends the prompt as a single user turn
func (s *ClaudeService) GetResponse(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	text, err := s.generateCompletion(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("model", s.model).Msg("Claude completion failed")
		return "", newProviderError(common.LLMProviderAnthropic, err)
	}

	s.logger.Debug().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude completion completed")

	return text, nil
}

func (s *ClaudeService) generateCompletion(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if s.temperature != nil {
		params.Temperature = anthropic.Float(*s.temperature)
	}

	if s.system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: s.system},
		}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(response.String()) == "" {
		return "", errors.New("no response generated")
	}

	return response.String(), nil
}
