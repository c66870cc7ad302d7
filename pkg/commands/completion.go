package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/notebuilder/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts.",
		Long: `Prints a completion script for the given shell (bash when omitted).

Template names complete from the configured store.

# ~/.bashrc
. <(notebuilder completion bash)

# ~/.zshrc
source <(notebuilder completion zsh)
`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return topLevel.GenBashCompletionV2(out, true)
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			case "powershell":
				return topLevel.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell %q", shell)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

// completeTemplateArg completes the template name in the first argument.
func completeTemplateArg(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return templateCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func templateCompletions(toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	var names []string
	for _, m := range p.List(context.Background()) {
		if strings.HasPrefix(m.Name, toComplete) {
			names = append(names, m.Name)
		}
	}
	return names
}
