package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/board"
)

var (
	verbose    bool
	storePath  string
	adapter    string
	versioning bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "Capture short notes by typing or dictating, find them by searching",
	Long: `murmur keeps a local collection of short notes.
Notes are typed or dictated through a local speech daemon, stored on this
device (a JSON/YAML file, optionally versioned with Git, or SQLite) and
found again with a case-insensitive substring search.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Store location (default: nearest store above the working directory, then ~/.murmur)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", murmur.AdapterFS, "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&versioning, "versioning", false, "Commit every change to Git (fs adapter)")
}

// resolveStore picks the store location from the flag, the working
// directory ancestry or the per-user default.
func resolveStore() string {
	if storePath != "" {
		return storePath
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := murmur.FindStoreRoot(wd); err == nil {
			return root
		}
	}
	return murmur.DefaultStorePath()
}

// openBoard opens the store selected by the global flags.
func openBoard(extra ...murmur.Option) (*board.Board, error) {
	path := resolveStore()
	slog.Debug("opening store", "path", path, "adapter", adapter)

	opts := []murmur.Option{
		murmur.WithAdapter(adapter),
		murmur.WithVersioning(versioning),
		murmur.WithLogger(slog.Default()),
	}
	b, err := murmur.New(path, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	return b, nil
}

// closeBoard releases adapters holding a connection.
func closeBoard(b *board.Board) {
	if c, ok := b.Store().Repository().(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}
}
