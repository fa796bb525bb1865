package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/services"
	"github.com/pkg/errors"
)

var exportYaml *bool

var exportCmd = &cobra.Command{
	Use:   "export OUT_DIR",
	Args:  cobra.ExactArgs(1),
	Short: "Export the service table as JSON or YAML",
	Long:  `The exported table can be consumed by tools which cannot read the generated source, and loaded back with --source.`,
	RunE:  RunAndHandleError(runExport),
}

// exportTable writes the table into dirPath, returning the path of the written file.
func exportTable(table *services.Table, dirPath string, format services.ExportFormat) (string, error) {
	filePath := path.Join(dirPath, "services"+format.Extension())
	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	if err := services.Export(file, table, format); err != nil {
		file.Close()
		return "", err
	}
	return filePath, file.Close()
}

// the run command for export
func runExport(command *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	format := services.ExportJSON
	if *exportYaml {
		format = services.ExportYAML
	}
	filePath, err := exportTable(table, args[0], format)
	if err != nil {
		return errors.Wrap(err, "export service table")
	}
	fmt.Fprintln(command.OutOrStdout(), "Exported to:", filePath)
	return nil
}

// Registers the export command
func init() {
	exportYaml = exportCmd.PersistentFlags().Bool("yaml", false, "Export as YAML instead of JSON.")
	rootCmd.AddCommand(exportCmd)
}
