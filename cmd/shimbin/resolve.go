package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/resolve"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ResolveUse,
		Short: messages.ResolveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), resolve.New(nil).BinPath(args[0]))
			return nil
		},
	}
}
