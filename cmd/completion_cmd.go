package cmd

import (
	"fmt"

	"github.com/daedaleanai/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion bash|zsh|fish|powershell",
	Short: "Generate completion script",
	Long: `To load completions:
Bash:
  $ source <(svcnames completion bash)
  # To load completions for each session, execute once:
  $ svcnames completion bash > /etc/bash_completion.d/svcnames
Zsh:
  $ svcnames completion zsh > "${fpath[1]}/_svcnames"
  # You will need to start a new shell for this setup to take effect.
fish:
  $ svcnames completion fish > ~/.config/fish/completions/svcnames.fish
PowerShell:
  PS> svcnames completion powershell | Out-String | Invoke-Expression

Service keys are completed for the lookup command.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE:                  RunAndHandleError(runCompletion),
	Hidden:                true,
}

// runCompletion writes the completion script for the requested shell
func runCompletion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch args[0] {
	case "bash":
		return cmd.Root().GenBashCompletion(out)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletion(out)
	}
	return fmt.Errorf("unsupported shell `%s`", args[0])
}

// Registers the completion subcommand
func init() {
	rootCmd.AddCommand(completionCmd)
}
