package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

// NewProvider creates the adapter for the selected provider.
// A missing API key fails here rather than on the first request.
func NewProvider(
	ctx context.Context,
	provider common.LLMProvider,
	apiKey string,
	cfg common.ProviderConfig,
	logger arbor.ILogger,
	opts ...Option,
) (interfaces.LLMProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &common.ConfigError{
			Field:   string(provider) + ".api_key",
			Message: fmt.Sprintf("%s API key not found", DisplayName(provider)),
		}
	}

	switch provider {
	case common.LLMProviderOpenAI, common.LLMProviderGroq:
		return NewOpenAIService(provider, apiKey, cfg, logger, opts...)
	case common.LLMProviderAnthropic:
		return NewClaudeService(apiKey, cfg, logger, opts...)
	case common.LLMProviderGemini:
		return NewGeminiService(ctx, apiKey, cfg, logger, opts...)
	default:
		return nil, &common.ConfigError{Field: "llm.provider", Message: fmt.Sprintf("unsupported LLM provider: %q", provider)}
	}
}

// NewProviderFromConfig creates the adapter named by cfg.LLM.Provider
func NewProviderFromConfig(ctx context.Context, cfg *common.Config, logger arbor.ILogger, opts ...Option) (interfaces.LLMProvider, error) {
	providerCfg, err := cfg.Provider(cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithTimeout(common.ParseDuration(cfg.LLM.Timeout, defaultRequestTimeout))}, opts...)

	logger.Info().
		Str("provider", string(cfg.LLM.Provider)).
		Str("model", providerCfg.Model).
		Msg("Initializing LLM provider")

	return NewProvider(ctx, cfg.LLM.Provider, providerCfg.APIKey, providerCfg, logger, opts...)
}
