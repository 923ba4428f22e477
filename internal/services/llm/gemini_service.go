package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
	"google.golang.org/genai"
)

// GeminiService implements LLMProvider using the Google Gemini API
type GeminiService struct {
	client      *genai.Client
	model       string
	temperature *float64
	maxTokens   int
	system      string
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewGeminiService creates a new Gemini adapter
func NewGeminiService(ctx context.Context, apiKey string, cfg common.ProviderConfig, logger arbor.ILogger, opts ...Option) (*GeminiService, error) {
	if apiKey == "" {
		return nil, &common.ConfigError{Field: "gemini.api_key", Message: "Gemini API key not found"}
	}

	o := buildOptions(opts)

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s := &GeminiService{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		system:      cfg.SystemMessage,
		timeout:     o.timeout,
		logger:      logger,
	}

	logger.Debug().
		Str("model", s.model).
		Dur("timeout", s.timeout).
		Msg("Gemini LLM service initialized")

	return s, nil
}

// GetResponse sends the prompt as a single user content
func (s *GeminiService) GetResponse(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	text, err := s.generateCompletion(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("model", s.model).Msg("Gemini completion failed")
		return "", newProviderError(common.LLMProviderGemini, err)
	}

	s.logger.Debug().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini completion completed")

	return text, nil
}

func (s *GeminiService) generateCompletion(ctx context.Context, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if s.temperature != nil || s.maxTokens > 0 || s.system != "" {
		config = &genai.GenerateContentConfig{}
		if s.temperature != nil {
			config.Temperature = genai.Ptr(float32(*s.temperature))
		}
		if s.maxTokens > 0 {
			config.MaxOutputTokens = int32(s.maxTokens)
		}
		if s.system != "" {
			config.SystemInstruction = genai.NewContentFromText(s.system, genai.RoleUser)
		}
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", err
	}

	// Use the first candidate that carries text
	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if strings.TrimSpace(response.String()) == "" {
		return "", errors.New("no response generated")
	}

	return response.String(), nil
}
