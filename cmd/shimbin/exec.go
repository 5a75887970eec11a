package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conn-castle/shimbin/internal/execbin"
	"github.com/conn-castle/shimbin/internal/messages"
)

func newExecCmd() *cobra.Command {
	var cwd string
	var envPairs []string
	cmd := &cobra.Command{
		Use:   messages.ExecUse,
		Short: messages.ExecShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := execbin.Options{Dir: cwd}
			if len(envPairs) > 0 {
				opts.Env = append(os.Environ(), envPairs...)
			}
			result, err := execbin.New(nil).Exec(cmd.Context(), args[0], args[1:], opts)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
			return err
		},
	}
	cmd.Flags().StringVar(&cwd, "cwd", "", messages.FlagCwdDesc)
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, messages.FlagEnvDesc)
	return cmd
}
