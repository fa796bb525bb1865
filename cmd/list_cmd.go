package cmd

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/services"
)

var (
	listKeyFilter  *string
	listNameFilter *string
	listSort       *string

	listCsvFormat *bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the services and their display names",
	Long:  `Lists the services and their display names, in the order they are defined unless --sort is given.`,
	Args:  cobra.NoArgs,
	RunE:  RunAndHandleError(runListCmd),
}

// list all services in the table
func runListCmd(command *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	filter, err := services.CreateFilter(*listKeyFilter, *listNameFilter)
	if err != nil {
		return err
	}
	order, err := services.ParseSortOrder(*listSort)
	if err != nil {
		return err
	}

	entries := filter.Apply(table.Sorted(order))
	if *listCsvFormat {
		return printCsv(command.OutOrStdout(), entries)
	}
	printConcise(command.OutOrStdout(), entries)
	return nil
}

// printConcise prints one service per line, with the keys aligned in a column
func printConcise(w io.Writer, entries []services.Entry) {
	width := 0
	for _, e := range entries {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-*s  %s\n", width, e.Key, e.DisplayName)
	}
}

// printCsv prints the services in csv format, with a title cased header row
func printCsv(w io.Writer, entries []services.Entry) error {
	csvwriter := csv.NewWriter(w)
	title := cases.Title(language.BritishEnglish)
	csvwriter.Write([]string{title.String("key"), title.String("display name")})
	for _, e := range entries {
		csvwriter.Write([]string{e.Key, e.DisplayName})
	}
	csvwriter.Flush()
	return csvwriter.Error()
}

// Registers the list command
func init() {
	listKeyFilter = listCmd.PersistentFlags().String("key", "", "Regular expression to filter by service key.")
	listNameFilter = listCmd.PersistentFlags().String("name", "", "Regular expression to filter by display name.")
	listSort = listCmd.PersistentFlags().String("sort", "none", "Order of the output: none (as defined), key or name.")

	listCsvFormat = listCmd.PersistentFlags().Bool("csv", false, "Output in csv format.")

	rootCmd.AddCommand(listCmd)
}
