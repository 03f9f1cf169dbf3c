package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dang-lang/dang-extension/internal/host"
)

// printSettings renders a resolved settings blob as JSON, optionally
// narrowed to a gjson query path.
func printSettings(cmd *cobra.Command, blob map[string]any, query string) error {
	out, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return err
	}

	if query != "" {
		result := gjson.GetBytes(out, query)
		if !result.Exists() {
			return fmt.Errorf("no value at %q", query)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// settingsCmd builds a subcommand around one of the two settings
// resolution operations; both have identical shape.
func settingsCmd(use, short string, resolve func(ext host.Extension, id host.ServerID, wt host.Worktree) (map[string]any, error)) *cobra.Command {
	var root string
	var query string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, id, wt, err := openProject(root)
			if err != nil {
				return err
			}

			ext, _, _ := registry.Lookup(id.Name())
			blob, err := resolve(ext, id, wt)
			if err != nil {
				return err
			}
			return printSettings(cmd, blob, query)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root directory")
	cmd.Flags().StringVarP(&query, "query", "q", "", "gjson path to extract from the result")
	return cmd
}

func newInitOptionsCmd() *cobra.Command {
	return settingsCmd(
		"init-options",
		"Print the resolved initialization options",
		func(ext host.Extension, id host.ServerID, wt host.Worktree) (map[string]any, error) {
			return ext.LanguageServerInitializationOptions(id, wt)
		},
	)
}

func newWorkspaceConfigCmd() *cobra.Command {
	return settingsCmd(
		"workspace-config",
		"Print the resolved workspace configuration",
		func(ext host.Extension, id host.ServerID, wt host.Worktree) (map[string]any, error) {
			return ext.LanguageServerWorkspaceConfiguration(id, wt)
		},
	)
}
