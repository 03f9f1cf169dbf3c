package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dang-lang/dang-extension/internal/extension"
	"github.com/dang-lang/dang-extension/internal/host"
	"github.com/dang-lang/dang-extension/internal/worktree"
)

// openProject builds the host-side objects the extension operations
// need: a worktree over the project root and a registered server ID.
func openProject(root string) (*host.Registry, host.ServerID, *worktree.Worktree, error) {
	wt, err := worktree.New(root)
	if err != nil {
		return nil, host.ServerID{}, nil, err
	}

	registry := host.NewRegistry()
	id := registry.Register(extension.ServerName, extension.New())
	return registry, id, wt, nil
}

func newCommandCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "command",
		Short: "Print the resolved language-server launch command",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, id, wt, err := openProject(root)
			if err != nil {
				return err
			}

			ext, _, _ := registry.Lookup(id.Name())
			launch, err := ext.LanguageServerCommand(id, wt)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), launch.Command, strings.Join(launch.Args, " "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root directory")
	return cmd
}
