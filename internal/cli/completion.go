package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antnest/pkg/archive"
)

// completionRunLimit caps the run ids offered for completion.
const completionRunLimit = 50

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for antnest.

Besides commands and flags, the scripts complete nest files for solve, render
and analyze, --format values (including comma-separated lists), and archived
run ids for 'antnest runs show' and 'antnest runs delete'.

  bash:        source <(antnest completion bash)
  zsh:         antnest completion zsh > "${fpath[1]}/_antnest"
  fish:        antnest completion fish > ~/.config/fish/completions/antnest.fish
  powershell:  antnest completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return root.GenBashCompletionV2(out, true)
		},
	}
}

// completeNestFile completes the single nest argument with text files.
func completeNestFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"txt"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats registers --format completion. With multi, the value is a
// comma-separated list and formats already listed are not offered again.
func completeFormats(cmd *cobra.Command, multi bool, formats ...string) {
	cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if !multi {
			return formats, cobra.ShellCompDirectiveNoFileComp
		}
		prefix := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix = toComplete[:i+1]
		}
		chosen := strings.Split(prefix, ",")
		var out []string
		for _, f := range formats {
			if !slices.Contains(chosen, f) {
				out = append(out, prefix+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	})
}

// completeRunID offers archived run ids, newest first, described by nest
// name and outcome.
func (c *CLI) completeRunID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var out []string
	err := c.withArchive(ctx, func(store archive.Store) error {
		runs, err := store.List(ctx, completionRunLimit)
		for _, r := range runs {
			if strings.HasPrefix(r.ID, toComplete) {
				out = append(out, r.ID+"\t"+r.Name+" ("+r.Outcome+")")
			}
		}
		return err
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
