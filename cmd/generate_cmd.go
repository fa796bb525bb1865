package cmd

import (
	"io"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/services"
	"github.com/pkg/errors"
)

var generateCmd = &cobra.Command{
	Use:   "generate [OUT_FILE]",
	Short: "Writes the service table source",
	Long: `Writes the service table back in the generated source format, with the configured header.
The output goes to OUT_FILE, or to stdout when it is omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: RunAndHandleError(runGenerate),
}

// generate writes the table source to w
func generate(w io.Writer, table *services.Table, header []string) error {
	return services.Write(w, table, header)
}

// the run command for generate
func runGenerate(command *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return generate(command.OutOrStdout(), table, svcConfig.Header)
	}

	file, err := os.Create(args[0])
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	if err := generate(file, table, svcConfig.Header); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Registers the generate command
func init() {
	rootCmd.AddCommand(generateCmd)
}
