package cli

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-translator/internal/database"
	"github.com/haytac/emoji-translator/internal/embedding"
	"github.com/haytac/emoji-translator/internal/keywords"
)

// NewDbCmd creates the 'db' command for corpus cache operations.
func NewDbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the corpus cache database (SQLite)",
	}

	cmd.AddCommand(newDbImportCmd())
	cmd.AddCommand(newDbStatsCmd())
	cmd.AddCommand(newDbBackupCmd())
	cmd.AddCommand(newDbRestoreCmd())

	return cmd
}

func newDbImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load the configured embedding and keyword files into the cache",
		Long:  "Reads embeddings_path and keywords_path and replaces the cached tables, so later runs can use source: database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			emb, _, err := embedding.LoadFile(AppCfg.EmbeddingsPath)
			if err != nil {
				return err
			}
			kw, err := keywords.LoadFile(AppCfg.KeywordsPath)
			if err != nil {
				return err
			}

			db, err := database.Connect(AppCfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			imp, err := database.NewCorpusStore(db).Import(cmd.Context(), emb, kw, AppCfg.EmbeddingsPath, AppCfg.KeywordsPath)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words, %d emoji and %d keywords (import ID %d).\n",
				imp.WordCount, imp.EmojiCount, imp.KeywordCount, imp.ID)
			return nil
		},
	}
}

func newDbStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the most recent import in the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			db, err := database.Connect(AppCfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			imp, err := database.NewCorpusStore(db).LatestImport(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if imp == nil {
				fmt.Fprintln(out, "Corpus cache is empty.")
				return nil
			}
			fmt.Fprintf(out, "Import ID:   %d\n", imp.ID)
			fmt.Fprintf(out, "Imported at: %s\n", imp.ImportedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Embeddings:  %s (%d words)\n", imp.EmbeddingsSource, imp.WordCount)
			fmt.Fprintf(out, "Keywords:    %s (%d emoji, %d keywords)\n", imp.KeywordsSource, imp.EmojiCount, imp.KeywordCount)
			return nil
		},
	}
}

func newDbBackupCmd() *cobra.Command {
	var outputPath string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup the SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded for db backup")
			}
			db, err := database.Connect(AppCfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if outputPath == "" {
				dbDir := filepath.Dir(AppCfg.DatabasePath)
				dbName := filepath.Base(AppCfg.DatabasePath)
				timestamp := time.Now().Format("20060102-150405")
				outputPath = filepath.Join(dbDir, fmt.Sprintf("%s-backup-%s.db", dbName, timestamp))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backing up database from '%s' to '%s'...\n", AppCfg.DatabasePath, outputPath)
			if err := db.Backup(cmd.Context(), outputPath); err != nil {
				return fmt.Errorf("database backup failed: %w", err)
			}
			fmt.Fprintln(out, "Database backup successful.")
			return nil
		},
	}
	backupCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the backup file (default: [db_dir]/[db_name]-backup-[timestamp].db)")
	return backupCmd
}

func newDbRestoreCmd() *cobra.Command {
	var yes bool
	restoreCmd := &cobra.Command{
		Use:   "restore <backup_file_path>",
		Short: "Restore the SQLite database from a backup file (WARNING: Overwrites current DB)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded for db restore")
			}
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprintf(out, "WARNING: This will overwrite the current database at '%s' with the backup from '%s'.\n", AppCfg.DatabasePath, inputPath)
				fmt.Fprint(out, "Are you sure you want to continue? (yes/no): ")
				confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(confirm) != "yes" {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			db, err := database.Connect(AppCfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			fmt.Fprintln(out, "Restoring database...")
			if err := db.Restore(inputPath); err != nil {
				return fmt.Errorf("database restore failed: %w", err)
			}
			fmt.Fprintln(out, "Database restore successful. Please restart the application if it is running.")
			return nil
		},
	}
	restoreCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return restoreCmd
}
