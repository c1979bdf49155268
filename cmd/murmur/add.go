package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/murmur/pkg/capture"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Save a typed note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.Join(args, " ")
		if content == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save.")
			return nil
		}

		b, err := openBoard()
		if err != nil {
			return err
		}
		defer closeBoard(b)

		b.OnBufferEdited(content)
		if err := b.OnSaveRequested(context.Background()); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", capture.SuccessMessage, b.Notes()[0].ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
