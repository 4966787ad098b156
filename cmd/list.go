package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [repo]",
		Short: "List compilable test candidates",
		Long: `Discover the test candidates whose compilation verdict is positive and
show them together with the detected project language. Nothing is built.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := runArgs(args)
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), params)
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
