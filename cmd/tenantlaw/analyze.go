package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/tenantlaw/internal/app"
	"github.com/ternarybob/tenantlaw/internal/services/pdf"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [contract text]",
	Short: "Review a lease against Ontario tenancy law",
	Long: `Analyzes contract text given as arguments, or a PDF/Word/text file given with --file.
Files are parsed through the document parsing service first.`,
	RunE: runAnalyze,
}

var (
	analyzeFile   string
	analyzeOutput string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Contract file to parse and analyze (.pdf, .docx, .doc, .txt)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the analysis to a PDF report at this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && analyzeFile == "" {
		return fmt.Errorf("contract text or --file is required")
	}
	if text != "" && analyzeFile != "" {
		return fmt.Errorf("give contract text or --file, not both")
	}

	var (
		application *app.App
		err         error
	)
	if analyzeFile != "" {
		application, err = app.New(ctx, config, logger)
	} else {
		application, err = app.NewAssistant(ctx, config, logger)
	}
	if err != nil {
		return err
	}
	defer application.Close()

	if analyzeFile != "" {
		text, err = contractTextFromFile(ctx, application, analyzeFile)
		if err != nil {
			return err
		}
	}

	analysis, err := application.Assistant.AnalyzeContract(ctx, text)
	if err != nil {
		return err
	}

	if analyzeOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), analysis)
		return nil
	}

	return writeReport(application, analysis, analyzeOutput)
}

func contractTextFromFile(ctx context.Context, application *app.App, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read contract file: %w", err)
	}

	doc, err := application.DocumentService.ProcessDocument(ctx, data, path)
	if err != nil {
		return "", err
	}

	logger.Info().
		Str("file", path).
		Int("sections", doc.NumPages).
		Msg("Contract parsed")

	return doc.Content, nil
}

func writeReport(application *app.App, analysis, path string) error {
	reports := application.Reports
	if reports == nil {
		reports = pdf.NewReportRenderer(logger)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := reports.RenderMarkdown(f, "Contract Analysis Report", analysis); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info().Str("path", path).Msg("Report written")
	return nil
}
