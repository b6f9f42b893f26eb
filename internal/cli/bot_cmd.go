package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-translator/internal/app"
	"github.com/haytac/emoji-translator/internal/metrics"
)

// NewBotCmd creates the 'bot' command.
func NewBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long:  "Long-polls Telegram and replies to every text message with its emoji translation. Requires telegram.token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			ctx, cancel := app.WithShutdownSignals(cmd.Context())
			defer cancel()

			application, err := app.NewApplication(ctx, AppCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			metrics.StartServer(AppCfg.MetricsPort)
			return application.RunBot(ctx)
		},
	}
}
