package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	LLM         LLMConfig       `toml:"llm"`
	OpenAI      ProviderConfig  `toml:"openai"`
	Groq        ProviderConfig  `toml:"groq"`
	Anthropic   ProviderConfig  `toml:"anthropic"`
	Gemini      ProviderConfig  `toml:"gemini"`
	Parser      ParserConfig    `toml:"parser"`
	Documents   DocumentsConfig `toml:"documents"`
}

type ServerConfig struct {
	Port         int    `toml:"port" validate:"min=1,max=65535"`
	Host         string `toml:"host"`
	ReadTimeout  string `toml:"read_timeout"`  // e.g. "15s"
	WriteTimeout string `toml:"write_timeout"` // must cover a full LLM round trip
	IdleTimeout  string `toml:"idle_timeout"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMProvider selects which hosted chat-completion API answers prompts
type LLMProvider string

const (
	LLMProviderOpenAI    LLMProvider = "openai"
	LLMProviderGroq      LLMProvider = "groq"
	LLMProviderAnthropic LLMProvider = "anthropic"
	LLMProviderGemini    LLMProvider = "gemini"
)

// LLMProviders lists every supported provider in a stable order
var LLMProviders = []LLMProvider{LLMProviderOpenAI, LLMProviderGroq, LLMProviderAnthropic, LLMProviderGemini}

// ParseLLMProvider maps a user supplied selector onto a known provider
func ParseLLMProvider(s string) (LLMProvider, error) {
	p := LLMProvider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range LLMProviders {
		if p == known {
			return p, nil
		}
	}
	return "", &ConfigError{Field: "llm.provider", Message: fmt.Sprintf("unsupported LLM provider: %q", s)}
}

type LLMConfig struct {
	Provider LLMProvider `toml:"provider" validate:"oneof=openai groq anthropic gemini"`
	Timeout  string      `toml:"timeout"` // per request, e.g. "2m"
}

// ProviderConfig holds the request shape for one hosted model.
// An unset Temperature or a zero MaxTokens leaves the vendor default in place;
// temperature = 0 is sent as is.
type ProviderConfig struct {
	APIKey        string   `toml:"api_key"`
	Model         string   `toml:"model" validate:"required"`
	Temperature   *float64 `toml:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens     int      `toml:"max_tokens" validate:"gte=0"`
	SystemMessage string   `toml:"system_message"`
	BaseURL       string   `toml:"base_url"`
}

// Float returns a pointer to v, for optional numeric settings
func Float(v float64) *float64 {
	return &v
}

// ParserConfig configures the LlamaParse document parsing service
type ParserConfig struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url" validate:"required,url"`
	ResultType   string `toml:"result_type" validate:"oneof=markdown text"`
	Language     string `toml:"language"`
	PollInterval string `toml:"poll_interval"` // e.g. "1s"
	Timeout      string `toml:"timeout"`       // upper bound on one parse job
}

type DocumentsConfig struct {
	TempDir       string `toml:"temp_dir" validate:"required"`
	RetentionDays int    `toml:"retention_days" validate:"min=1"`
	MaxUploadMB   int    `toml:"max_upload_mb" validate:"min=1"`
	ChunkSize     int    `toml:"chunk_size"`    // informational, not applied to prompts
	ChunkOverlap  int    `toml:"chunk_overlap"` // informational, not applied to prompts
	LawTextFile   string `toml:"law_text_file"` // replaces the embedded law text when set
}

// ConfigError reports a configuration problem detected at startup
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Field, e.Message)
}

// Uploads are parsed inside the HTTP request, so a parse job must finish
// before the server's write deadline.
const (
	DefaultWriteTimeout = 180 * time.Second
	DefaultParseTimeout = 150 * time.Second
)

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:         8086,
			Host:         "localhost",
			ReadTimeout:  "15s",
			WriteTimeout: "180s",
			IdleTimeout:  "60s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		LLM: LLMConfig{
			Provider: LLMProviderGroq,
			Timeout:  "2m",
		},
		OpenAI: ProviderConfig{
			Model:         "gpt-3.5-turbo",
			Temperature:   Float(0.3),
			MaxTokens:     1000,
			SystemMessage: "You are a legal assistant specializing in Canada Ontario Tenancy Law.",
			BaseURL:       "https://api.openai.com/v1",
		},
		Groq: ProviderConfig{
			Model:         "llama-3.1-8b-instant",
			Temperature:   Float(0.2),
			MaxTokens:     2000,
			SystemMessage: "You are a legal assistant specializing in Ontario Tenancy Law.",
			BaseURL:       "https://api.groq.com/openai/v1",
		},
		Anthropic: ProviderConfig{
			Model:     "claude-3-opus-20240229",
			MaxTokens: 2000,
		},
		Gemini: ProviderConfig{
			Model: "gemini-pro",
		},
		Parser: ParserConfig{
			BaseURL:      "https://api.cloud.llamaindex.ai",
			ResultType:   "markdown",
			Language:     "en",
			PollInterval: "1s",
			Timeout:      "150s",
		},
		Documents: DocumentsConfig{
			TempDir:       "temp_files",
			RetentionDays: 7,
			MaxUploadMB:   20,
			ChunkSize:     1000,
			ChunkOverlap:  200,
		},
	}
}

// LoadDotEnv loads .env files into the process environment when present.
// Variables already set in the environment are not overwritten.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// LoadFromFiles loads configuration with priority: defaults -> files (in order) -> env.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TENANTLAW_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("TENANTLAW_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TENANTLAW_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging
	if level := os.Getenv("TENANTLAW_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TENANTLAW_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM selection: the app prefixed name wins over the bare one
	if provider := firstEnv("TENANTLAW_LLM_PROVIDER", "LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(strings.ToLower(provider))
	}
	if timeout := os.Getenv("TENANTLAW_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}

	// Vendor keys use the vendor's conventional variable names
	if key := firstEnv("TENANTLAW_OPENAI_API_KEY", "OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if key := firstEnv("TENANTLAW_GROQ_API_KEY", "GROQ_API_KEY"); key != "" {
		config.Groq.APIKey = key
	}
	if key := firstEnv("TENANTLAW_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"); key != "" {
		config.Anthropic.APIKey = key
	}
	if key := firstEnv("TENANTLAW_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := firstEnv("TENANTLAW_LLAMA_CLOUD_API_KEY", "LLAMA_CLOUD_API_KEY"); key != "" {
		config.Parser.APIKey = key
	}

	// Documents
	if dir := os.Getenv("TENANTLAW_TEMP_DIR"); dir != "" {
		config.Documents.TempDir = dir
	}
	if days := os.Getenv("TENANTLAW_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Documents.RetentionDays = d
		}
	}
	if path := os.Getenv("TENANTLAW_LAW_TEXT_FILE"); path != "" {
		config.Documents.LawTextFile = path
	}
	if size := os.Getenv("CHUNK_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			config.Documents.ChunkSize = s
		}
	}
	if overlap := os.Getenv("CHUNK_OVERLAP"); overlap != "" {
		if o, err := strconv.Atoi(overlap); err == nil {
			config.Documents.ChunkOverlap = o
		}
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have highest priority.
func ApplyFlagOverrides(config *Config, port int, host string, provider string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if provider != "" {
		config.LLM.Provider = LLMProvider(strings.ToLower(provider))
	}
}

// Validate checks struct constraints and the duration fields
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Message: err.Error()}
	}

	durations := map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"server.idle_timeout":  c.Server.IdleTimeout,
		"llm.timeout":          c.LLM.Timeout,
		"parser.poll_interval": c.Parser.PollInterval,
		"parser.timeout":       c.Parser.Timeout,
	}
	for field, value := range durations {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return &ConfigError{Field: field, Message: fmt.Sprintf("invalid duration %q", value)}
		}
	}

	writeTimeout := ParseDuration(c.Server.WriteTimeout, DefaultWriteTimeout)
	parseTimeout := ParseDuration(c.Parser.Timeout, DefaultParseTimeout)
	if parseTimeout >= writeTimeout {
		return &ConfigError{
			Field:   "parser.timeout",
			Message: fmt.Sprintf("parse timeout %s must be shorter than server.write_timeout %s", parseTimeout, writeTimeout),
		}
	}

	return nil
}

// Provider returns the request settings for the given provider
func (c *Config) Provider(p LLMProvider) (ProviderConfig, error) {
	switch p {
	case LLMProviderOpenAI:
		return c.OpenAI, nil
	case LLMProviderGroq:
		return c.Groq, nil
	case LLMProviderAnthropic:
		return c.Anthropic, nil
	case LLMProviderGemini:
		return c.Gemini, nil
	default:
		return ProviderConfig{}, &ConfigError{Field: "llm.provider", Message: fmt.Sprintf("unsupported LLM provider: %q", p)}
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// ParseDuration parses a config duration, falling back when empty or invalid
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
