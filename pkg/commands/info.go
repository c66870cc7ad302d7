package commands

import (
	"fmt"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/notebuilder/pkg/commands/options"
)

func addInfo(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and the stored templates.",
		Example: `
notebuilder info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, cfg, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.PrintJSON(map[string]any{
					"configPath": os.Getenv("NOTEBUILDER_CONFIG_PATH"),
					"path":       cfg.BasePath(),
					"copySuffix": cfg.CopySuffix(),
					"summary":    summary,
				})
			}

			w := oo.Writer()
			if override := os.Getenv("NOTEBUILDER_CONFIG_PATH"); override != "" {
				_, _ = fmt.Fprintln(w, "NOTEBUILDER_CONFIG_PATH found on env, using", override)
			} else {
				_, _ = fmt.Fprintln(w, "NOTEBUILDER_CONFIG_PATH env var not set")
			}
			_, _ = fmt.Fprintln(w, "Config.path:", cfg.BasePath())
			_, _ = fmt.Fprintf(w, "Config.copy_suffix: %q\n", cfg.CopySuffix())
			_, _ = fmt.Fprintf(w, "Templates: %d, sections: %d\n", summary.Templates, summary.Sections)

			tbl := uitable.New()
			tbl.Separator = "  "
			for _, kc := range summary.Kinds {
				tbl.AddRow("  "+kc.Kind.Label(), kc.Count)
			}
			_, _ = fmt.Fprintln(w, tbl)
			for _, name := range summary.Unreadable {
				_, _ = fmt.Fprintf(w, "  unreadable: %s\n", name)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
