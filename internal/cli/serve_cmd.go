package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-translator/internal/app"
)

// NewServeCmd creates the 'serve' command.
func NewServeCmd() *cobra.Command {
	var withBot bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation API",
		Long:  "Runs the HTTP translation API and the metrics endpoint until interrupted. With --bot the Telegram bot runs alongside.",
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
			return application.Serve(ctx, withBot)
		},
	}
	cmd.Flags().BoolVar(&withBot, "bot", false, "also run the Telegram bot")
	return cmd
}
