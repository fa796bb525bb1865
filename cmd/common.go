package cmd

import (
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/config"
	"github.com/daedaleanai/svcnames/diagnostics"
	"github.com/daedaleanai/svcnames/linepipes"
	"github.com/daedaleanai/svcnames/services"
	"github.com/daedaleanai/svcnames/util"
	"github.com/pkg/errors"
)

var rootCmd = &cobra.Command{
	Use:   "svcnames",
	Short: "Svcnames maps service identifiers to display names.",
	Long: `Svcnames owns the table mapping service identifiers (e.g. "cosmos") to the display
names used to label CI pipeline configuration (e.g. "CosmosDB"). It looks names up,
lists, validates, regenerates and exports the table.`,
	Version: fmt.Sprintf("%d.%d.%d", util.Version.Major, util.Version.Minor, util.Version.Revision),
}

var svcConfig *config.Config

// Path of the table source given on the command line, overriding the configuration
var sourcePath string

// Sets up the global svcConfig variable from the configuration file of the current checkout
func setupConfiguration() error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "get working directory")
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return errors.Wrapf(err, "Error parsing `%s` file in current repo", config.FileName)
	}
	if sourcePath != "" {
		cfg.Source = sourcePath
	}

	svcConfig = &cfg
	return nil
}

// loadTable sets up the configuration and loads the service table it selects. A table source with major issues is
// an error, the issues are part of the message.
func loadTable() (*services.Table, error) {
	if err := setupConfiguration(); err != nil {
		return nil, errors.Wrap(err, "setup configuration")
	}
	table, issues, err := svcConfig.LoadTable()
	if err != nil {
		return nil, errors.Wrap(err, "load service table")
	}
	if diagnostics.HasMajor(issues) {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Severity == diagnostics.IssueSeverityMajor {
				messages = append(messages, issue.String())
			}
		}
		return nil, errors.Errorf("invalid service table:\n%s", strings.Join(messages, "\n"))
	}
	return table, nil
}

// Provides completions for service keys, skipping the ones already on the command line
func completeServiceKey(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	possibleCompletions := []string{}
	table, err := loadTable()
	if err != nil {
		return possibleCompletions, cobra.ShellCompDirectiveError
	}
	given := make(map[string]bool, len(args))
	for _, arg := range args {
		given[arg] = true
	}
	for _, key := range table.Keys() {
		if strings.HasPrefix(key, toComplete) && !given[key] {
			possibleCompletions = append(possibleCompletions, key)
		}
	}
	return possibleCompletions, cobra.ShellCompDirectiveNoFileComp
}

// Initializes the root command flags
func init() {
	rootCmd.PersistentFlags().BoolVarP(&linepipes.Verbose, "verbose", "v", false, "Enable verbose logs.")
	rootCmd.PersistentFlags().StringVarP(&sourcePath, "source", "s", "", "Service table source to use instead of the configured or embedded one.")
}

// Runs the root command.
func RunRootCommand() error {
	return rootCmd.Execute()
}

// RunAndHandleError returns a RunE function that runs the specified RunE
// function and exits if it returns an error.
func RunAndHandleError(runE func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	// Wrap the specified runE func in a new func with the same signature.
	return func(cmd *cobra.Command, args []string) error {
		// At some place in Cobra they lose track of whether the error is
		// returned by a RunE function or it's an arguments parsing error.
		// That's why we need to handle our errors ourselves and exit with an
		// appropriate error code.
		// See https://github.com/spf13/cobra/issues/914
		if errRun := runE(cmd, args); errRun != nil {
			// For example: "github.com/daedaleanai/svcnames/cmd.runLookup"
			s := runtime.FuncForPC(reflect.ValueOf(runE).Pointer()).Name()
			s = s[strings.LastIndex(s, "/")+1:]
			fmt.Fprintln(os.Stderr, errors.Wrap(errRun, s))
			os.Exit(1)
		}
		return nil
	}
}
