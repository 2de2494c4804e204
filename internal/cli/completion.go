package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for vegabundle.

To load completions:

Bash:
  $ source <(vegabundle completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ vegabundle completion bash > /etc/bash_completion.d/vegabundle
  # macOS:
  $ vegabundle completion bash > $(brew --prefix)/etc/bash_completion.d/vegabundle

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ vegabundle completion zsh > "${fpath[1]}/_vegabundle"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ vegabundle completion fish | source

  # To load completions for each session, execute once:
  $ vegabundle completion fish > ~/.config/fish/completions/vegabundle.fish

PowerShell:
  PS> vegabundle completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> vegabundle completion powershell > vegabundle.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeSpecFiles completes spec file arguments.
func completeSpecFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeValues returns a completion function offering a fixed set of values.
func completeValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerSpecCompletions wires file and flag completion for a command
// taking spec files.
func registerSpecCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeSpecFiles
	if cmd.Flags().Lookup("config") != nil {
		_ = cmd.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
		})
	}
}
