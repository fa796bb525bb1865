package cmd

import (
	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/web"
)

var webAddr *string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Starts a local web server to browse and look up service display names",
	Long: `Starts a local web server serving the HTML report at /, the exported table at
/services.json and /services.yaml, and single lookups at /lookup/KEY`,
	Args: cobra.NoArgs,
	RunE: RunAndHandleError(runWebCmd),
}

// Starts the web server listening on the supplied address:port
func runWebCmd(command *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	return web.Serve(table, *svcConfig, *webAddr)
}

// Registers the web command
func init() {
	webAddr = webCmd.PersistentFlags().String("addr", ":8080", "The ip:port where to serve.")
	rootCmd.AddCommand(webCmd)
}
