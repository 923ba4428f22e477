package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
	"github.com/ternarybob/tenantlaw/internal/handlers"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/lawtext"
	"github.com/ternarybob/tenantlaw/internal/services/assistant"
	"github.com/ternarybob/tenantlaw/internal/services/chat"
	"github.com/ternarybob/tenantlaw/internal/services/documents"
	"github.com/ternarybob/tenantlaw/internal/services/llm"
	"github.com/ternarybob/tenantlaw/internal/services/parser"
	"github.com/ternarybob/tenantlaw/internal/services/pdf"
	"github.com/ternarybob/tenantlaw/internal/services/sessions"
)

// App holds all application components and dependencies.
// Everything is built once at startup and passed explicitly.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Static reference text injected into every prompt
	LawText string

	// LLM provider and assistant facade
	Provider  interfaces.LLMProvider
	Assistant *assistant.LegalAssistant

	// Chat sessions (in-memory)
	Sessions    *sessions.Store
	ChatService *chat.ChatService

	// Document pipeline
	Parser          *parser.Client
	Processor       *documents.Processor
	DocumentService *documents.Service
	Reports         *pdf.ReportRenderer

	// HTTP handlers
	APIHandler         *handlers.APIHandler
	ChatHandler        *handlers.ChatHandler
	ContractHandler    *handlers.ContractHandler
	MaintenanceHandler *handlers.MaintenanceHandler
	WSHandler          *handlers.WebSocketHandler
}

// Option customises application wiring, mainly for tests
type Option func(*options)

type options struct {
	provider     interfaces.LLMProvider
	parser       interfaces.DocumentParser
	llmOptions   []llm.Option
	parserClient []parser.ClientOption
}

// WithProvider replaces the configured LLM provider
func WithProvider(provider interfaces.LLMProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithParser replaces the LlamaParse client
func WithParser(p interfaces.DocumentParser) Option {
	return func(o *options) {
		o.parser = p
	}
}

// WithLLMOptions passes options through to the provider constructor
func WithLLMOptions(opts ...llm.Option) Option {
	return func(o *options) {
		o.llmOptions = append(o.llmOptions, opts...)
	}
}

// WithParserOptions passes options through to the LlamaParse client
func WithParserOptions(opts ...parser.ClientOption) Option {
	return func(o *options) {
		o.parserClient = append(o.parserClient, opts...)
	}
}

// New initializes the full application: assistant, document pipeline and handlers.
// A missing LLM or parsing-service key is a startup error.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger, opts ...Option) (*App, error) {
	o := buildOptions(opts)

	app, err := newApp(ctx, cfg, logger, o)
	if err != nil {
		return nil, err
	}

	if err := app.initDocuments(o); err != nil {
		return nil, fmt.Errorf("failed to initialize document pipeline: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("provider", string(cfg.LLM.Provider)).
		Str("temp_dir", cfg.Documents.TempDir).
		Int("chunk_size", cfg.Documents.ChunkSize).
		Int("chunk_overlap", cfg.Documents.ChunkOverlap).
		Msg("Application initialization complete")

	return app, nil
}

// NewAssistant initializes only the LLM provider, assistant and chat service.
// Used by commands that never touch uploaded documents.
func NewAssistant(ctx context.Context, cfg *common.Config, logger arbor.ILogger, opts ...Option) (*App, error) {
	return newApp(ctx, cfg, logger, buildOptions(opts))
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newApp(ctx context.Context, cfg *common.Config, logger arbor.ILogger, o options) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	lawText, err := lawtext.LoadFile(cfg.Documents.LawTextFile)
	if err != nil {
		return nil, &common.ConfigError{Field: "documents.law_text_file", Message: err.Error()}
	}
	app.LawText = lawText

	if err := app.initAssistant(ctx, o); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) initAssistant(ctx context.Context, o options) error {
	provider := o.provider
	if provider == nil {
		p, err := llm.NewProviderFromConfig(ctx, a.Config, a.Logger, o.llmOptions...)
		if err != nil {
			return err
		}
		provider = p
	}
	a.Provider = provider

	a.Assistant = assistant.NewLegalAssistant(a.Provider, a.LawText, a.Logger)
	a.Sessions = sessions.NewStore(a.Logger)
	a.ChatService = chat.NewChatService(a.Assistant, a.Sessions, a.Logger)

	a.Logger.Debug().
		Int("law_text_chars", len(a.LawText)).
		Msg("Legal assistant initialized")

	return nil
}

func (a *App) initDocuments(o options) error {
	docParser := o.parser
	if docParser == nil {
		client, err := NewParserClient(a.Config, a.Logger, o.parserClient...)
		if err != nil {
			return err
		}
		a.Parser = client
		docParser = client
	}

	processor, err := documents.NewProcessor(a.Config.Documents, docParser, pdf.NewSplitter(a.Logger), a.Logger)
	if err != nil {
		return err
	}
	a.Processor = processor
	a.DocumentService = documents.NewService(processor, a.Logger)
	a.Reports = pdf.NewReportRenderer(a.Logger)

	return nil
}

// NewParserClient builds the LlamaParse client from config
func NewParserClient(cfg *common.Config, logger arbor.ILogger, opts ...parser.ClientOption) (*parser.Client, error) {
	pc := cfg.Parser
	base := []parser.ClientOption{
		parser.WithBaseURL(pc.BaseURL),
		parser.WithLogger(logger),
		parser.WithResultType(pc.ResultType),
		parser.WithLanguage(pc.Language),
		parser.WithPollInterval(common.ParseDuration(pc.PollInterval, parser.DefaultPollInterval)),
		parser.WithJobTimeout(common.ParseDuration(pc.Timeout, common.DefaultParseTimeout)),
	}

	client, err := parser.NewClient(pc.APIKey, append(base, opts...)...)
	if err != nil {
		return nil, &common.ConfigError{Field: "parser.api_key", Message: err.Error()}
	}
	return client, nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Sessions, a.Logger)
	a.ContractHandler = handlers.NewContractHandler(
		a.DocumentService,
		a.Assistant,
		a.Sessions,
		a.Reports,
		a.Config.Documents.MaxUploadMB,
		a.Logger,
	)
	a.MaintenanceHandler = handlers.NewMaintenanceHandler(a.Processor, a.Config.Documents.RetentionDays, a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.ChatService, a.Logger)
}

// Close releases application resources
func (a *App) Close() error {
	if a.WSHandler != nil {
		a.WSHandler.CloseAll()
	}

	if a.Sessions != nil {
		a.Logger.Debug().Int("sessions", a.Sessions.Count()).Msg("Discarding chat sessions")
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
