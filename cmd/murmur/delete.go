package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/murmur/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		b, err := openBoard()
		if err != nil {
			return err
		}
		defer closeBoard(b)

		if core.IndexOf(b.Notes(), id) < 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No note with id %s.\n", id)
			return nil
		}

		if err := b.OnDeleteRequested(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
