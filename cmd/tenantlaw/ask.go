package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/tenantlaw/internal/app"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a tenancy question",
	Long:  `Answers a single question against the Ontario tenancy law reference text.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	application, err := app.NewAssistant(cmd.Context(), config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	logger.Debug().Str("question", question).Msg("Asking question")

	resp, err := application.ChatService.Chat(cmd.Context(), &interfaces.ChatRequest{Message: question})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
	return nil
}
