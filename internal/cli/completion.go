package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for hdlview and print it to stdout.

Completion covers subcommands and flags, so designs can be lowered and
rendered without memorizing the flag surface.

Load it for the current session:

  Bash:        source <(hdlview completion bash)
  Zsh:         source <(hdlview completion zsh)
  Fish:        hdlview completion fish | source
  PowerShell:  hdlview completion powershell | Out-String | Invoke-Expression

Install it permanently:

  Bash (Linux):  hdlview completion bash > /etc/bash_completion.d/hdlview
  Bash (macOS):  hdlview completion bash > $(brew --prefix)/etc/bash_completion.d/hdlview
  Zsh:           hdlview completion zsh > "${fpath[1]}/_hdlview"
  Fish:          hdlview completion fish > ~/.config/fish/completions/hdlview.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
