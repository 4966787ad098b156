package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crucible.dev/pkg/crucible/internal/domain"
	m "crucible.dev/pkg/crucible/internal/model"
)

const runLongDescription = `Run the full validation pipeline for a repository of generated tests:
check the manual review gate, discover the tests whose compilation verdict
is positive, provision the test framework, rewrite sources, build with
CMake, execute every produced test binary and write per-test reports under
<repo>/tests/test_reports.

The process exits with code 3 when the review gate denies the run.`

var runTimeoutFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [repo]",
		Short: "Validate generated tests end to end",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := runArgs(args)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), params)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	initConfig()

	cmd.Flags().IntVarP(&runTimeoutFlag, timeoutFlagName, "t", viper.GetInt(timeoutConfigKey), "per-binary execution timeout in seconds")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutConfigKey)
}

// runArgs assembles the workflow arguments shared by run, gate and list.
// Language values outside the recognized set are a usage error, caught here
// before any pipeline stage sees them.
func runArgs(args []string) (domain.RunArgs, error) {
	lang := m.Language(viper.GetString(languageConfigKey))
	switch lang {
	case m.LangC, m.LangCPP, m.LangAuto:
	default:
		return domain.RunArgs{}, fmt.Errorf("unknown language %q: expected c, cpp or auto", lang)
	}

	return domain.RunArgs{
		RepoRoot:  repoRoot(args),
		OutputDir: viper.GetString(outputFlagName),
		Language:  lang,
		Timeout:   time.Duration(viper.GetInt(timeoutConfigKey)) * time.Second,
	}, nil
}
