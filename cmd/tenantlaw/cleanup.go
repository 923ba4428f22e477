package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/tenantlaw/internal/services/documents"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old day-stamped temp directories",
	Long:  `Deletes temp directories named YYYY-MM-DD that are older than the retention period. Other entries are left alone.`,
	RunE:  runCleanup,
}

var cleanupDays int

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "Days to keep (defaults to documents.retention_days)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	days := config.Documents.RetentionDays
	if cmd.Flags().Changed("days") {
		days = cleanupDays
	}

	removed, err := documents.CleanupOldFiles(config.Documents.TempDir, days, time.Now(), logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d directories older than %d days from %s\n", removed, days, config.Documents.TempDir)
	return nil
}
