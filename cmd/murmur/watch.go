package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/core"
)

var watchQuery string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the notes again every time the record changes on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		b, err := openBoard(murmur.WithWatcherErrorHandler(func(err error) {
			slog.Warn("record watcher error", "error", err)
		}))
		if err != nil {
			return err
		}
		defer closeBoard(b)

		w, ok := b.Store().Repository().(core.Watchable)
		if !ok {
			return errors.New("the selected adapter does not support watching; use --adapter fs")
		}

		changes, err := w.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch store: %w", err)
		}

		out := cmd.OutOrStdout()
		printNotes(out, b.OnQueryChanged(watchQuery))
		fmt.Fprintln(out, "Watching for changes (Ctrl-C to stop)...")

		for range changes {
			slog.Debug("record changed, reloading")
			b.Open(ctx)
			fmt.Fprintln(out)
			printNotes(out, b.Visible())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchQuery, "query", "q", "", "Only notes containing this text (case-insensitive)")
}
