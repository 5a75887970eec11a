package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/terminal"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			color.NoColor = !terminal.ColorEnabled()
		},
	}
	cmd.AddCommand(newWhichCmd(), newResolveCmd(), newExecCmd(), newDlxCmd())
	return cmd
}
