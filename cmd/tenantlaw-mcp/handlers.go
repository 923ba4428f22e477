package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/services/documents"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(format string, args ...interface{}) *mcp.CallToolResult {
	result := textResult(fmt.Sprintf(format, args...))
	result.IsError = true
	return result
}

// handleAskTenancyQuestion implements the ask_tenancy_question tool
func handleAskTenancyQuestion(chatService interfaces.ChatService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return errorResult("Error: question parameter is required"), nil
		}

		resp, err := chatService.Chat(ctx, &interfaces.ChatRequest{
			SessionID: request.GetString("session_id", ""),
			Message:   question,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Question failed")
			return errorResult("Question failed: %v", err), nil
		}

		return textResult(formatAnswer(resp)), nil
	}
}

// handleAnalyzeContract implements the analyze_contract tool
func handleAnalyzeContract(assistant interfaces.AssistantService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		contractText, err := request.RequireString("contract_text")
		if err != nil || contractText == "" {
			return errorResult("Error: contract_text parameter is required"), nil
		}

		analysis, err := assistant.AnalyzeContract(ctx, contractText)
		if err != nil {
			logger.Error().Err(err).Msg("Contract analysis failed")
			return errorResult("Analysis failed: %v", err), nil
		}

		return textResult(formatAnalysis("", analysis)), nil
	}
}

// handleAnalyzeContractFile implements the analyze_contract_file tool
func handleAnalyzeContractFile(
	documentService interfaces.DocumentService,
	assistant interfaces.AssistantService,
	logger arbor.ILogger,
) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return errorResult("Error: path parameter is required"), nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errorResult("Cannot read file: %v", err), nil
		}

		doc, err := documentService.ProcessDocument(ctx, data, path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Contract file processing failed")
			return errorResult("Processing failed: %v", err), nil
		}

		analysis, err := assistant.AnalyzeContract(ctx, doc.Content)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Contract analysis failed")
			return errorResult("Analysis failed: %v", err), nil
		}

		return textResult(formatAnalysis(doc.FileName, analysis)), nil
	}
}

// handleCleanupTempFiles implements the cleanup_temp_files tool
func handleCleanupTempFiles(cfg common.DocumentsConfig, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", cfg.RetentionDays)
		if days < 1 {
			return errorResult("Error: days must be at least 1"), nil
		}

		removed, err := documents.CleanupOldFiles(cfg.TempDir, days, time.Now(), logger)
		if err != nil {
			return errorResult("Cleanup failed: %v", err), nil
		}

		return textResult(formatCleanup(removed, days, cfg.TempDir)), nil
	}
}
