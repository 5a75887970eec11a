package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/which"
)

func newWhichCmd() *cobra.Command {
	var all, strict bool
	cmd := &cobra.Command{
		Use:   messages.WhichUse,
		Short: messages.WhichShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := which.WhichContext(cmd.Context(), args[0], which.Options{All: all, Strict: strict})
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return &SilentExitError{Code: 1}
			}
			out := cmd.OutOrStdout()
			for _, match := range matches {
				_, _ = fmt.Fprintln(out, match)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, messages.FlagAllDesc)
	cmd.Flags().BoolVar(&strict, "strict", false, messages.FlagStrictDesc)
	return cmd
}
