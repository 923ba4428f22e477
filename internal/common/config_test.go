package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TENANTLAW_LLM_PROVIDER", "LLM_PROVIDER",
		"TENANTLAW_GROQ_API_KEY", "GROQ_API_KEY",
		"TENANTLAW_OPENAI_API_KEY", "OPENAI_API_KEY",
		"TENANTLAW_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"TENANTLAW_LLAMA_CLOUD_API_KEY", "LLAMA_CLOUD_API_KEY",
		"CHUNK_SIZE", "CHUNK_OVERLAP",
	} {
		t.Setenv(name, "")
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, LLMProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Groq.Model)
	require.NotNil(t, cfg.Groq.Temperature)
	assert.Equal(t, 0.2, *cfg.Groq.Temperature)
	assert.Nil(t, cfg.Anthropic.Temperature)
	assert.Equal(t, 2000, cfg.Groq.MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 1000, cfg.OpenAI.MaxTokens)
	assert.Equal(t, "claude-3-opus-20240229", cfg.Anthropic.Model)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Equal(t, 7, cfg.Documents.RetentionDays)
	assert.Equal(t, 1000, cfg.Documents.ChunkSize)
	assert.Equal(t, 200, cfg.Documents.ChunkOverlap)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(base, []byte("[llm]\nprovider = \"openai\"\n\n[server]\nport = 9000\n"), 0644))
	require.NoError(t, os.WriteFile(override, []byte("[server]\nport = 9100\n\n[documents]\nretention_days = 3\n"), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, LLMProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Documents.RetentionDays)
	// Untouched sections keep their defaults
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("LLAMA_CLOUD_API_KEY", "llx-key")
	t.Setenv("CHUNK_SIZE", "512")
	t.Setenv("CHUNK_OVERLAP", "64")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, LLMProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	assert.Equal(t, "llx-key", cfg.Parser.APIKey)
	assert.Equal(t, 512, cfg.Documents.ChunkSize)
	assert.Equal(t, 64, cfg.Documents.ChunkOverlap)
}

func TestEnvOverrides_PrefixedNameWins(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GROQ_API_KEY", "bare")
	t.Setenv("TENANTLAW_GROQ_API_KEY", "prefixed")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Groq.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 7000, "0.0.0.0", "GEMINI")

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, LLMProviderGemini, cfg.LLM.Provider)

	ApplyFlagOverrides(cfg, 0, "", "")
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LLM.Provider = "mistral"
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	cfg = NewDefaultConfig()
	cfg.Documents.RetentionDays = 0
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Parser.PollInterval = "soon"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parser.poll_interval")
}

func TestValidate_ParseTimeoutWithinWriteTimeout(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Less(t, ParseDuration(cfg.Parser.Timeout, 0), ParseDuration(cfg.Server.WriteTimeout, 0))

	cfg.Parser.Timeout = "10m"
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "parser.timeout", cfgErr.Field)

	cfg.Parser.Timeout = cfg.Server.WriteTimeout
	assert.Error(t, cfg.Validate())

	// Raising the write deadline makes room for a longer parse
	cfg.Server.WriteTimeout = "15m"
	cfg.Parser.Timeout = "10m"
	assert.NoError(t, cfg.Validate())

	// Empty values fall back to the defaults, which agree
	cfg.Server.WriteTimeout = ""
	cfg.Parser.Timeout = ""
	assert.NoError(t, cfg.Validate())
}

func TestProviderTemperature_ExplicitZero(t *testing.T) {
	clearProviderEnv(t)
	path := filepath.Join(t.TempDir(), "zero.toml")
	require.NoError(t, os.WriteFile(path, []byte("[openai]\ntemperature = 0.0\n"), 0644))

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.OpenAI.Temperature)
	assert.Equal(t, 0.0, *cfg.OpenAI.Temperature)
	assert.NoError(t, cfg.Validate())

	cfg.OpenAI.Temperature = Float(2.5)
	assert.Error(t, cfg.Validate())
}

func TestParseLLMProvider(t *testing.T) {
	p, err := ParseLLMProvider(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, LLMProviderOpenAI, p)

	_, err = ParseLLMProvider("cohere")
	assert.Error(t, err)
}

func TestConfigProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	pc, err := cfg.Provider(LLMProviderGroq)
	require.NoError(t, err)
	assert.Equal(t, "You are a legal assistant specializing in Ontario Tenancy Law.", pc.SystemMessage)

	_, err = cfg.Provider("unknown")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, ParseDuration("3s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("bogus", time.Minute))
}
