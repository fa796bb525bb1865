package cmd

import (
	"log"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/linepipes"
	"github.com/daedaleanai/svcnames/report"
	"github.com/daedaleanai/svcnames/services"
)

var (
	reportKeyFilter  *string
	reportNameFilter *string
	reportSort       *string
	reportStyle      *string
)

var reportCmd = &cobra.Command{
	Use:   "report OUT_FILE",
	Short: "Creates an HTML report of the service display names",
	Long:  "Creates an HTML report listing the service display names, followed by the highlighted table source",
	Args:  cobra.ExactArgs(1),
	RunE:  RunAndHandleError(runReportCmd),
}

// Registers the report command
func init() {
	reportKeyFilter = reportCmd.PersistentFlags().String("key", "", "Regular expression to filter by service key.")
	reportNameFilter = reportCmd.PersistentFlags().String("name", "", "Regular expression to filter by display name.")
	reportSort = reportCmd.PersistentFlags().String("sort", "none", "Order of the listed services: none (as defined), key or name.")
	reportStyle = reportCmd.PersistentFlags().String("style", "", "Chroma style used for the table source. Defaults to the configured style.")
	rootCmd.AddCommand(reportCmd)
}

// runReportCmd loads the table and writes the html report
func runReportCmd(command *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	filter, err := services.CreateFilter(*reportKeyFilter, *reportNameFilter)
	if err != nil {
		return err
	}
	order, err := services.ParseSortOrder(*reportSort)
	if err != nil {
		return err
	}
	opts := report.Options{
		Style:  svcConfig.ReportStyle,
		Filter: filter,
		Order:  order,
		Header: svcConfig.Header,
	}
	if *reportStyle != "" {
		opts.Style = *reportStyle
	}

	of, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if linepipes.Verbose {
		log.Print("Creating ", of.Name())
	}
	if err := report.Services(table, of, opts); err != nil {
		of.Close()
		return err
	}
	return of.Close()
}
