package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-translator/internal/config"
	"github.com/haytac/emoji-translator/internal/logging"
)

var (
	cfgFile string
	// AppCfg is populated by RootCmd's PersistentPreRunE.
	AppCfg *config.AppConfig
)

var RootCmd = &cobra.Command{
	Use:   "emoji-translator",
	Short: "Translate text into emoji, one per matching word.",
	Long: `emoji-translator compares each word of a text against emoji keywords
using word embeddings and prints the best-scoring emoji of every word that
clears the similarity threshold, space-separated in word order.

It can run as a one-shot CLI, an HTTP API, a Telegram bot, or over the
titles of an RSS/Atom feed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		AppCfg = loadedCfg
		logging.Setup(AppCfg.Log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, $HOME/.emoji-translator/config.yaml)")

	RootCmd.AddCommand(NewTranslateCmd())
	RootCmd.AddCommand(NewServeCmd())
	RootCmd.AddCommand(NewBotCmd())
	RootCmd.AddCommand(NewFeedCmd())
	RootCmd.AddCommand(NewDbCmd())
}
