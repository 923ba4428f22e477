package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
)

// OpenAIService calls an OpenAI-compatible chat completions endpoint.
// Groq exposes the same API shape, so both providers share this adapter.
type OpenAIService struct {
	provider    common.LLMProvider
	client      *openai.Client
	baseURL     string
	model       string
	temperature *float64
	maxTokens   int
	system      string
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewOpenAIService creates an adapter for OpenAI or Groq
func NewOpenAIService(provider common.LLMProvider, apiKey string, cfg common.ProviderConfig, logger arbor.ILogger, opts ...Option) (*OpenAIService, error) {
	if provider != common.LLMProviderOpenAI && provider != common.LLMProviderGroq {
		return nil, fmt.Errorf("provider %q is not OpenAI-compatible", provider)
	}
	if apiKey == "" {
		return nil, &common.ConfigError{Field: string(provider) + ".api_key", Message: DisplayName(provider) + " API key not found"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if provider == common.LLMProviderGroq {
			baseURL = "https://api.groq.com/openai/v1"
		} else {
			baseURL = "https://api.openai.com/v1"
		}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	o := buildOptions(opts)

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = o.httpClient

	s := &OpenAIService{
		provider:    provider,
		client:      openai.NewClientWithConfig(clientCfg),
		baseURL:     baseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		system:      cfg.SystemMessage,
		timeout:     o.timeout,
		logger:      logger,
	}

	logger.Debug().
		Str("provider", string(provider)).
		Str("model", s.model).
		Str("base_url", s.baseURL).
		Int("max_tokens", s.maxTokens).
		Msg("OpenAI-compatible LLM service initialized")

	return s, nil
}

// GetResponse sends the prompt as a single user message
func (s *OpenAIService) GetResponse(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("provider", string(s.provider)).
			Msg("Chat completion failed")
		return "", newProviderError(s.provider, err)
	}

	s.logger.Debug().
		Str("provider", string(s.provider)).
		Int("prompt_length", len(prompt)).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Chat completion completed")

	return text, nil
}

func (s *OpenAIService) complete(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if s.system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: s.system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:     s.model,
		Messages:  messages,
		MaxTokens: s.maxTokens,
	}
	if s.temperature != nil {
		req.Temperature = float32(*s.temperature)
		// go-openai omits a zero temperature from the request body
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by model")
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
