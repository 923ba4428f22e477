package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAskTenancyQuestionTool returns the ask_tenancy_question tool definition
func createAskTenancyQuestionTool() mcp.Tool {
	return mcp.NewTool("ask_tenancy_question",
		mcp.WithDescription("Answer a question about Ontario residential tenancy law"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question in plain language"),
		),
		mcp.WithString("session_id",
			mcp.Description("Continue an earlier conversation (returned by a previous call)"),
		),
	)
}

// createAnalyzeContractTool returns the analyze_contract tool definition
func createAnalyzeContractTool() mcp.Tool {
	return mcp.NewTool("analyze_contract",
		mcp.WithDescription("Review lease text for compliance with Ontario residential tenancy law"),
		mcp.WithString("contract_text",
			mcp.Required(),
			mcp.Description("Full text of the lease agreement"),
		),
	)
}

// createAnalyzeContractFileTool returns the analyze_contract_file tool definition
func createAnalyzeContractFileTool() mcp.Tool {
	return mcp.NewTool("analyze_contract_file",
		mcp.WithDescription("Parse a lease file and review it for compliance with Ontario residential tenancy law"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Local path to a .pdf, .docx, .doc or .txt file"),
		),
	)
}

// createCleanupTempFilesTool returns the cleanup_temp_files tool definition
func createCleanupTempFilesTool() mcp.Tool {
	return mcp.NewTool("cleanup_temp_files",
		mcp.WithDescription("Remove day-stamped temp directories older than the retention period"),
		mcp.WithNumber("days",
			mcp.Description("Days to keep (default: documents.retention_days, min: 1)"),
		),
	)
}
