// Command dang-extension is a development harness around the dang
// editor extension. It resolves and prints the same values the editor
// host would obtain through the extension's entry points: the language
// server launch command, initialization options, and workspace
// configuration for a project directory.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "dang-extension",
		Short: "Inspect the dang language-server integration for a project",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newCommandCmd())
	rootCmd.AddCommand(newInitOptionsCmd())
	rootCmd.AddCommand(newWorkspaceConfigCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
