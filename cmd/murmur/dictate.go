package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/murmur"
	bridge "github.com/aretw0/murmur/pkg/adapters/lifecycle"
	"github.com/aretw0/murmur/pkg/capture"
	"github.com/aretw0/murmur/pkg/core"
)

var (
	dictateLocale string
	dictateSocket string
)

var dictateCmd = &cobra.Command{
	Use:   "dictate",
	Short: "Dictate a note through the local speech daemon",
	Long: `Dictate streams live speech recognition into the note buffer.
Press Enter to stop and save the note, Ctrl-C to discard it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sink := core.NewChannelSink(256)
		b, err := openBoard(
			murmur.WithSink(sink),
			murmur.WithLocale(dictateLocale),
			murmur.WithDaemonSocket(dictateSocket),
		)
		if err != nil {
			return err
		}
		defer closeBoard(b)

		src := bridge.NewSource(sink.Events(), bridge.WithTypes(
			core.EventBufferChanged,
			core.EventSessionStateChanged,
			core.EventError,
		))
		if err := src.Start(ctx); err != nil {
			return err
		}

		if err := b.OnModeChosen(ctx, core.InputDictate); err != nil {
			if errors.Is(err, core.ErrCapabilityUnavailable) {
				return fmt.Errorf("speech recognition is unavailable, type the note with `murmur add` instead: %w", err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Listening... (Enter saves, Ctrl-C discards)")

		enter := make(chan struct{})
		lifecycle.Go(ctx, func(context.Context) error {
			bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			close(enter)
			return nil
		})

		events := src.Events()
		for {
			select {
			case <-ctx.Done():
				if b.Mode() == capture.ModeDictating {
					_ = b.OnDictationCancelRequested()
				}
				fmt.Fprintln(out, "\nDiscarded.")
				return nil

			case <-enter:
				if err := b.OnDictationStopRequested(); err != nil {
					slog.Warn("failed to stop dictation", "error", err)
				}
				if b.Buffer() == "" {
					fmt.Fprintln(out, "Nothing captured.")
					return nil
				}
				if err := b.OnSaveRequested(context.Background()); err != nil {
					return fmt.Errorf("failed to save note: %w", err)
				}
				fmt.Fprintf(out, "%s: %s\n", capture.SuccessMessage, b.Notes()[0].ID)
				return nil

			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				e, ok := ev.(core.Event)
				if !ok {
					continue
				}
				switch e.Type {
				case core.EventBufferChanged:
					fmt.Fprintf(out, "\r\033[K%s", e.Text)
				case core.EventSessionStateChanged:
					if e.State == core.SessionIdle {
						fmt.Fprintln(out, "\n(recognition ended, press Enter to save)")
					}
				case core.EventError:
					slog.Warn("dictation error", "error", e.Err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(dictateCmd)
	dictateCmd.Flags().StringVarP(&dictateLocale, "locale", "l", "", "Recognition language (default pt-BR)")
	dictateCmd.Flags().StringVar(&dictateSocket, "socket", "", "Speech daemon socket (default ~/.murmur/speech.sock)")
}
