package cmd

import (
	"fmt"
	"io"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/services"
	"github.com/pkg/errors"
)

var (
	lookupFallback *bool
	lookupWithKey  *bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup KEY...",
	Short: "Prints the display names of the given services",
	Long: `Prints the display name of each given service key, one per line.
Unknown keys are an error unless --fallback is given, in which case the key itself is printed.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeServiceKey,
	RunE:              RunAndHandleError(runLookup),
}

// lookup prints the display name of every key. It stops at the first unknown key unless fallback is set.
func lookup(w io.Writer, table *services.Table, keys []string, fallback, withKey bool) error {
	for _, key := range keys {
		if !fallback && !table.Has(key) {
			return &services.NotFoundError{Key: key}
		}
		name := table.DisplayNameOrKey(key)
		if withKey {
			fmt.Fprintf(w, "%s\t%s\n", key, name)
		} else {
			fmt.Fprintln(w, name)
		}
	}
	return nil
}

// the run command for lookup
func runLookup(command *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	return errors.Wrap(lookup(command.OutOrStdout(), table, args, *lookupFallback, *lookupWithKey), "lookup")
}

// Registers the lookup command
func init() {
	lookupFallback = lookupCmd.PersistentFlags().Bool("fallback", false, "Print the key itself for services without a display name.")
	lookupWithKey = lookupCmd.PersistentFlags().Bool("with-key", false, "Print the key before each display name, separated by a tab.")
	rootCmd.AddCommand(lookupCmd)
}
