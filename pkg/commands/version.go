package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set by the release build through -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// stamp is the version triple reported by the version command.
type stamp struct {
	Version, Commit, Date string
}

// resolveStamp starts from the -ldflags values and fills whatever the release
// build left at its default from the module version and VCS settings the Go
// toolchain records in the binary.
func resolveStamp(info *debug.BuildInfo, ok bool) stamp {
	s := stamp{Version: version, Commit: commit, Date: date}
	if !ok || info == nil {
		return s
	}
	if s.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		s.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if s.Commit == "none" {
				s.Commit = setting.Value
			}
		case "vcs.time":
			if s.Date == "unknown" {
				s.Date = setting.Value
			}
		}
	}
	return s
}

func addVersion(topLevel *cobra.Command) {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the notebuilder build version.",
		Example: `
notebuilder version
notebuilder version -o text
notebuilder version --short
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := resolveStamp(debug.ReadBuildInfo())
			switch output {
			case "text":
				if shortened {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.Version)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notebuilder %s (commit %s, built %s)\n", s.Version, s.Commit, s.Date)
				return nil
			case "json", "yaml":
				_, _ = fmt.Fprint(cmd.OutOrStdout(), goversion.FuncWithOutput(shortened, s.Version, s.Commit, s.Date, output))
				return nil
			default:
				return fmt.Errorf("unknown output %q, want json, yaml or text", output)
			}
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'json', 'yaml' or 'text'.")

	topLevel.AddCommand(cmd)
}
