package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/pipeline"
)

// datasetExts are the file extensions offered when completing a dataset argument.
var datasetExts = []string{"json", "yaml", "yml", "toml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bubblechart.

Dataset arguments complete to built-in samples ("sample:portfolio") and to
JSON, YAML and TOML files.

To load completions:

Bash:
  $ source <(bubblechart completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ bubblechart completion bash > /etc/bash_completion.d/bubblechart
  # macOS:
  $ bubblechart completion bash > $(brew --prefix)/etc/bash_completion.d/bubblechart

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ bubblechart completion zsh > "${fpath[1]}/_bubblechart"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ bubblechart completion fish | source

  # To load completions for each session, execute once:
  $ bubblechart completion fish > ~/.config/fish/completions/bubblechart.fish

PowerShell:
  PS> bubblechart completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> bubblechart completion powershell > bubblechart.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeDataset completes the single dataset argument of layout, render
// and browse: sample references first, then dataset files.
func completeDataset(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var refs []string
	for _, name := range chart.SampleNames() {
		ref := pipeline.SamplePrefix + name
		if strings.HasPrefix(ref, toComplete) {
			refs = append(refs, ref)
		}
	}
	if strings.HasPrefix(toComplete, pipeline.SamplePrefix) {
		return refs, cobra.ShellCompDirectiveNoFileComp
	}
	if len(refs) > 0 {
		return refs, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveDefault
	}
	return datasetExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeLayoutFile completes layout documents for visualize.
func completeLayoutFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
