package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/murmur/pkg/adapters/fs"
	"github.com/aretw0/murmur/pkg/core"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the store and its components",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard()
		if err != nil {
			return err
		}
		defer closeBoard(b)

		components := []any{b.Store(), b.Store().Repository(), b.Capture()}
		states := make(map[string]any, len(components))
		for _, c := range components {
			intro, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			name := "component"
			if comp, ok := c.(introspection.Component); ok {
				name = comp.ComponentType()
			}
			states[name] = intro.State()
		}

		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "store"
			config.SecondaryLabel = "Store Topology"
			fmt.Fprintln(cmd.OutOrStdout(), introspection.TreeDiagram(buildStoreTree(states), config))
			return nil
		}

		out, err := json.MarshalIndent(states, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

type storeNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []storeNode
}

// buildStoreTree maps component states onto introspection diagram nodes.
// Status values must match the classes in introspection.DefaultStyles().
func buildStoreTree(states map[string]any) storeNode {
	root := storeNode{Name: "Store", Status: "running", Metadata: map[string]string{"type": "process"}}
	if st, ok := states["store"].(core.StoreState); ok {
		root.Metadata["notes"] = fmt.Sprintf("%d", st.Notes)
		root.Metadata["repository"] = st.RepositoryType
		if st.LastError != "" {
			root.Status = "failed"
		}
	}

	if st, ok := states["fs"].(fs.RepositoryState); ok {
		watcher := "suspended"
		if st.WatcherActive {
			watcher = "running"
		}
		root.Children = append(root.Children, storeNode{
			Name:     "Record",
			Status:   "running",
			Metadata: map[string]string{"type": "container", "path": st.Path, "format": st.Format},
			Children: []storeNode{{Name: "Watcher", Status: watcher, Metadata: map[string]string{"type": "goroutine"}}},
		})
	}

	if _, ok := states["capture"]; ok {
		root.Children = append(root.Children, storeNode{
			Name:     "Capture",
			Status:   "suspended",
			Metadata: map[string]string{"type": "goroutine"},
		})
	}
	return root
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
