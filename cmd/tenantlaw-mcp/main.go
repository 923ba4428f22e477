package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/tenantlaw/internal/app"
	"github.com/ternarybob/tenantlaw/internal/common"
)

func main() {
	common.LoadDotEnv()

	// Load configuration
	var configPaths []string
	if configPath := os.Getenv("TENANTLAW_CONFIG"); configPath != "" {
		configPaths = append(configPaths, configPath)
	} else if _, err := os.Stat("tenantlaw.toml"); err == nil {
		configPaths = append(configPaths, "tenantlaw.toml")
	}

	config, err := common.LoadFromFiles(configPaths...)
	if err == nil {
		err = config.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := common.InitStdioLogger("warn")

	ctx := context.Background()

	// Contract files need the parsing service; without its key only text tools are offered
	application, err := app.New(ctx, config, logger)
	var cfgErr *common.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Field == "parser.api_key" {
		logger.Warn().Msg("Parser API key not set, analyze_contract_file disabled")
		application, err = app.NewAssistant(ctx, config, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"tenantlaw",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register assistant tools
	mcpServer.AddTool(createAskTenancyQuestionTool(), handleAskTenancyQuestion(application.ChatService, logger))
	mcpServer.AddTool(createAnalyzeContractTool(), handleAnalyzeContract(application.Assistant, logger))
	if application.DocumentService != nil {
		mcpServer.AddTool(createAnalyzeContractFileTool(), handleAnalyzeContractFile(application.DocumentService, application.Assistant, logger))
	}

	// Register maintenance tools
	mcpServer.AddTool(createCleanupTempFilesTool(), handleCleanupTempFiles(config.Documents, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
