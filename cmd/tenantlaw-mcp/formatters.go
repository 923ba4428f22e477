package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

// formatAnswer renders a chat answer with the session to continue from
func formatAnswer(resp *interfaces.ChatResponse) string {
	var sb strings.Builder
	sb.WriteString(resp.Response)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("**Session:** %s\n", resp.SessionID))
	return sb.String()
}

// formatAnalysis renders a contract analysis as markdown
func formatAnalysis(fileName, analysis string) string {
	var sb strings.Builder
	if fileName != "" {
		sb.WriteString(fmt.Sprintf("## Contract Analysis: %s\n\n", fileName))
	} else {
		sb.WriteString("## Contract Analysis\n\n")
	}
	sb.WriteString(strings.TrimSpace(analysis))
	sb.WriteString("\n")
	return sb.String()
}

func formatCleanup(removed, days int, tempDir string) string {
	return fmt.Sprintf("Removed %d temp directories older than %d days from %s\n", removed, days, tempDir)
}
