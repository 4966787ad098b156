// Package cmd provides the root command and CLI setup for crucible.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"crucible.dev/pkg/crucible/internal/adapter"
	"crucible.dev/pkg/crucible/internal/controller"
	"crucible.dev/pkg/crucible/internal/domain"
	m "crucible.dev/pkg/crucible/internal/model"
)

// exitCodeGateDenied is the process exit code reserved for a failed manual
// review gate, so CI systems can tell it apart from ordinary failures.
const exitCodeGateDenied = 3

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var processRunner adapter.ProcessRunner
var frameworkFetcher adapter.FrameworkFetcher
var ui controller.UI
var workflow domain.Workflow

// outputDirFlag names the build workspace, anchored under <repo>/tests when
// relative.
var outputDirFlag string

// languageFlag forces the project language instead of detecting it.
var languageFlag string

// noTUIFlag disables the interactive display even on a terminal.
var noTUIFlag bool

var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewLocalReportStore(fsAdapter)
	processRunner = adapter.NewLocalProcessRunner()
	frameworkFetcher = adapter.NewHTTPFrameworkFetcher()
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	workflow = buildWorkflow(ui)
}

func buildWorkflow(ui controller.UI) domain.Workflow {
	scanner := domain.NewSourceScanner()

	return domain.NewPipeline(
		fsAdapter,
		reportStore,
		ui,
		domain.NewGate(fsAdapter),
		domain.NewDiscovery(fsAdapter),
		domain.NewProvisioner(fsAdapter, frameworkFetcher),
		domain.NewTransformer(fsAdapter, scanner),
		domain.NewDescriptorGenerator(fsAdapter),
		domain.NewBuilder(processRunner),
		domain.NewExecutor(fsAdapter, processRunner, domain.NewOutputSummarizer(), viper.GetInt(runParallelConfigKey)),
	)
}

const rootLongDescription = `Crucible validates machine-generated C and C++ unit tests before they are
trusted: it enforces a manual review gate, collects the tests that already
compile, provisions the matching test framework, rewrites sources so each
test links standalone, builds everything with CMake and runs the resulting
binaries, writing a report per test.

The repository root is given as a positional argument (default: current
directory); candidate verdicts are read from tests/compilation_report.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "crucible",
		Short:         "Gated build-and-run pipeline for generated C/C++ tests",
		Long:          rootLongDescription,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)

			if noTUIFlag {
				if _, isTUI := ui.(*controller.TUI); isTUI {
					ui = controller.NewSimpleUI(cmd)
					workflow = buildWorkflow(ui)
				}
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	initConfig()

	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"build workspace directory (anchored under <repo>/tests when relative)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVarP(&languageFlag, languageFlagName, "l", viper.GetString(languageConfigKey), "project language: c, cpp or auto")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(languageFlagName), languageConfigKey)

	cmd.PersistentFlags().BoolVar(&noTUIFlag, noTUIFlagName, false, "disable the interactive display")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default .crucible.log)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var denied *domain.DeniedError
	if errors.As(err, &denied) {
		os.Exit(exitCodeGateDenied)
	}

	fmt.Fprintln(rootCmd.ErrOrStderr(), "crucible:", err)
	os.Exit(1)
}

// repoRoot resolves the positional repository argument, defaulting to the
// current directory.
func repoRoot(args []string) m.Path {
	if len(args) > 0 && args[0] != "" {
		return m.Path(args[0])
	}

	return m.Path(".")
}
