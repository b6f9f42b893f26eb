package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-translator/internal/app"
	"github.com/haytac/emoji-translator/internal/formatter"
	"github.com/haytac/emoji-translator/internal/rss"
	"github.com/haytac/emoji-translator/internal/telegram"
	"github.com/haytac/emoji-translator/pkg/interfaces"
)

// NewFeedCmd creates the 'feed' command.
func NewFeedCmd() *cobra.Command {
	var (
		limit   int
		chatID  string
		tmplStr string
	)

	cmd := &cobra.Command{
		Use:   "feed <url>",
		Short: "Translate the titles of an RSS/Atom feed",
		Long: `Fetches the feed, translates the title of each of its newest items and
prints one rendered line per item. With --chat-id every item that produced an
emoji is also sent to that Telegram chat or channel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if !cmd.Flags().Changed("limit") {
				limit = AppCfg.Feed.MaxItems
			}
			if !cmd.Flags().Changed("template") {
				tmplStr = AppCfg.Feed.Template
			}

			f, err := formatter.NewFeedFormatter(tmplStr)
			if err != nil {
				return err
			}

			application, err := app.NewApplication(cmd.Context(), AppCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			var notifier interfaces.Notifier
			if chatID != "" {
				if AppCfg.Telegram.Token == "" {
					return fmt.Errorf("--chat-id requires telegram.token (or EMOJI_TRANSLATOR_TELEGRAM_TOKEN)")
				}
				client, err := telegram.NewClient(AppCfg.Telegram.Token, application.ClientFactory)
				if err != nil {
					return err
				}
				notifier = client
			}

			ft := app.NewFeedTranslator(rss.NewGoFeedFetcher(application.ClientFactory), f, application.Engine, notifier)
			return ft.Run(cmd.Context(), args[0], limit, chatID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of items to translate (default from feed.max_items)")
	cmd.Flags().StringVar(&chatID, "chat-id", "", "Telegram chat ID or @channel to forward translated items to")
	cmd.Flags().StringVar(&tmplStr, "template", formatter.DefaultTemplate, "Go template for each output line (default from feed.template)")
	return cmd
}
