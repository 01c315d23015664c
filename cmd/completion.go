package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for rutin.

Bash:
  $ source <(rutin completion bash)

  # Or install permanently:
  $ rutin completion bash > /etc/bash_completion.d/rutin           # Linux
  $ rutin completion bash > $(brew --prefix)/etc/bash_completion.d/rutin  # macOS

Zsh:
  # Enable completion once if you haven't:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ rutin completion zsh > "${fpath[1]}/_rutin"
  # Then start a new shell.

Fish:
  $ rutin completion fish | source

  # Or install permanently:
  $ rutin completion fish > ~/.config/fish/completions/rutin.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
