package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/murmur/pkg/core"
)

var (
	listJSON  bool
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard()
		if err != nil {
			return err
		}
		defer closeBoard(b)

		notes := b.OnQueryChanged(listQuery)

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
			return nil
		}

		printNotes(cmd.OutOrStdout(), notes)
		return nil
	},
}

// printNotes writes one line per note: id, creation time and first line of content.
func printNotes(w io.Writer, notes []core.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}
	for _, n := range notes {
		first, _, more := strings.Cut(n.Content, "\n")
		if more {
			first += " ..."
		}
		fmt.Fprintf(w, "%s  %s  %s\n", n.ID, n.CreatedAt.Local().Format(time.DateTime), first)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only notes containing this text (case-insensitive)")
}
