package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-translator/internal/app"
	"github.com/haytac/emoji-translator/internal/translator"
)

// maxInputLineBytes bounds one line of standard input.
const maxInputLineBytes = 64 << 20

// NewTranslateCmd creates the 'translate' command.
func NewTranslateCmd() *cobra.Command {
	var (
		explain   bool
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text to emoji, one per matching word",
		Long: `Translate each word of the given text to its best matching emoji and
print the emoji space-separated, in word order. Unknown words and words
without a match are left out.

With no arguments, each line of standard input is translated separately and
one result line is printed per input line. An empty result line means no
word scored above the similarity threshold.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if cmd.Flags().Changed("threshold") {
				if threshold < -1 || threshold > 1 {
					return fmt.Errorf("--threshold must be within [-1, 1], got %v", threshold)
				}
				AppCfg.SimilarityThreshold = threshold
			}

			application, err := app.NewApplication(cmd.Context(), AppCfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				return writeTranslation(out, application.Engine, strings.Join(args, " "), explain)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 64*1024), maxInputLineBytes)
			for scanner.Scan() {
				if err := writeTranslation(out, application.Engine, scanner.Text(), explain); err != nil {
					return err
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "print the per-word breakdown instead of only the emoji")
	cmd.Flags().Float64Var(&threshold, "threshold", translator.DefaultSimilarityThreshold, "override the similarity threshold")
	return cmd
}

func writeTranslation(w io.Writer, engine *translator.Engine, text string, explain bool) error {
	if !explain {
		_, err := fmt.Fprintln(w, engine.Translate(text))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tKNOWN\tEMOJI\tKEYWORD\tSCORE")
	emoji, results := engine.TranslateExplained(text)
	for _, res := range results {
		if res.Match == nil {
			fmt.Fprintf(tw, "%s\t%t\t-\t-\t-\n", res.Token, res.Known)
			continue
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%.4f\n", res.Token, res.Known, res.Match.Emoji, res.Match.Keyword, res.Match.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "=> %s\n", emoji)
	return err
}
