package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ternarybob/tenantlaw/internal/app"
	"github.com/ternarybob/tenantlaw/internal/models"
	"github.com/ternarybob/tenantlaw/internal/services/documents"
	"github.com/ternarybob/tenantlaw/internal/services/pdf"
)

var splitCmd = &cobra.Command{
	Use:   "split [file]",
	Short: "Split a PDF or Word document into one file per page",
	Long: `Writes one file per page into a new directory under today's temp directory and prints the paths.
Word documents are split by the parsing service; PDFs are split locally.
The page files are kept until the cleanup command removes them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

var splitTitle string

func init() {
	splitCmd.Flags().StringVar(&splitTitle, "title", "", "Document title (defaults to PDF metadata or the file name)")
}

func runSplit(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, docType, err := documents.ReadDocumentBytes(path)
	if err != nil {
		return err
	}

	parserClient, err := app.NewParserClient(config, logger)
	if err != nil {
		return err
	}

	processor, err := documents.NewProcessor(config.Documents, parserClient, pdf.NewSplitter(logger), logger)
	if err != nil {
		return err
	}

	doc := &models.DocumentFile{
		Data:  data,
		Name:  filepath.Base(path),
		Type:  docType,
		Title: splitTitle,
	}
	pages, err := processor.SplitDocumentPages(cmd.Context(), doc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title: %s\n", doc.Title)
	fmt.Fprintf(out, "Directory: %s\n", pages.Dir)
	for _, file := range pages.Files {
		fmt.Fprintln(out, file)
	}

	if len(pages.Files) == 0 {
		fmt.Fprintln(os.Stderr, "No pages produced")
	}
	return nil
}
