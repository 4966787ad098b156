package cmd

import (
	"github.com/spf13/cobra"
)

// gateCmd represents the gate command.
var gateCmd = newGateCmd()

func newGateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gate [repo]",
		Short: "Check the manual review gate only",
		Long: `Evaluate the manual review gate without building or running anything.
Every file declared in tests/review/review_required.md must have a matching
approval flag; the process exits with code 3 when any is missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := runArgs(args)
			if err != nil {
				return err
			}

			return workflow.CheckGate(cmd.Context(), params)
		},
	}
}

func init() {
	rootCmd.AddCommand(gateCmd)
}
