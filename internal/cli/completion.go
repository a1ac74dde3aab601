package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for actlog.

To load completions for your shell:

Bash:
  # To load completions for each session, execute once:
  # Linux:
  actlog completion bash > /etc/bash_completion.d/actlog
  # macOS:
  actlog completion bash > /usr/local/etc/bash_completion.d/actlog

  # Or add to your ~/.bashrc or ~/.bash_profile:
  source <(actlog completion bash)

Zsh:
  # To load completions for each session, execute once:
  actlog completion zsh > "${fpath[1]}/_actlog"

  # Or add to your ~/.zshrc:
  source <(actlog completion zsh)

Fish:
  # To load completions for each session, execute once:
  actlog completion fish > ~/.config/fish/completions/actlog.fish

PowerShell:
  # To load completions for each session, run:
  actlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		shell := args[0]

		var err error
		switch shell {
		case "bash":
			err = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			err = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			err = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			err = fmt.Errorf("unsupported shell type: %s", shell)
		}

		if err != nil {
			fmtErr("failed to generate completion for %s: %v", shell, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
