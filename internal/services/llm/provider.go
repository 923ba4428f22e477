package llm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/tenantlaw/internal/common"
)

const defaultRequestTimeout = 2 * time.Minute

// ProviderError wraps any failure from a hosted model call.
// The message is prefixed with the vendor name so callers can tell which API failed.
type ProviderError struct {
	Provider common.LLMProvider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error: %v", DisplayName(e.Provider), e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider common.LLMProvider, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// DisplayName returns the vendor name used in logs and error messages
func DisplayName(provider common.LLMProvider) string {
	switch provider {
	case common.LLMProviderOpenAI:
		return "OpenAI"
	case common.LLMProviderGroq:
		return "Groq"
	case common.LLMProviderAnthropic:
		return "Anthropic"
	case common.LLMProviderGemini:
		return "Gemini"
	default:
		return string(provider)
	}
}

// Option customises a provider at construction
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient sets the HTTP client used for outbound calls
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout bounds every GetResponse call
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		httpClient: &http.Client{},
		timeout:    defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
