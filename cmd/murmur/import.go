package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [glob]",
	Short: "Save one note per matching text file",
	Long: `Import reads every file matching the glob (doublestar syntax, e.g.
"inbox/**/*.txt") and saves its content as a new note. Empty files are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := doublestar.FilepathGlob(args[0], doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", args[0], err)
		}
		if len(matches) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No files match %s.\n", args[0])
			return nil
		}

		b, err := openBoard()
		if err != nil {
			return err
		}
		defer closeBoard(b)

		ctx := context.Background()
		imported := 0
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			content := strings.TrimRight(string(data), "\r\n")
			if content == "" {
				slog.Debug("skipping empty file", "path", path)
				continue
			}

			b.OnBufferEdited(content)
			if err := b.OnSaveRequested(ctx); err != nil {
				return fmt.Errorf("failed to import %s: %w", path, err)
			}
			slog.Debug("imported note", "path", path)
			imported++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes.\n", imported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
