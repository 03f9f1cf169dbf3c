package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dang-lang/dang-extension/internal/settings"
	"github.com/dang-lang/dang-extension/internal/worktree"
)

func newWatchCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the project's settings layers and print change events",
		RunE: func(cmd *cobra.Command, args []string) error {
			wt, err := worktree.New(root)
			if err != nil {
				return err
			}

			store := settings.NewStore()
			watcher, err := store.Watch(wt, func(ev settings.Event) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s changed at %s\n", ev.Path, ev.Time.Format("15:04:05"))
			})
			if err != nil {
				return err
			}
			defer watcher.Close()

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			<-signals
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root directory")
	return cmd
}
