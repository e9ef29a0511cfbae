package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errProbeFailed = errors.New("probe failed")

func newProbeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the configured provider accepts the credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			settings, err := a.store.Current(cmd.Context())
			if err != nil {
				return err
			}

			res := a.service.Probe(cmd.Context(), settings)
			out := cmd.OutOrStdout()
			if res.Success {
				fmt.Fprintf(out, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("✓"), res.Message)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("✗"), res.Message)
			return errProbeFailed
		},
	}
}
