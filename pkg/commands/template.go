package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/notebuilder/pkg/app"
	"tableflip.dev/notebuilder/pkg/commands/options"
	"tableflip.dev/notebuilder/pkg/printers"
)

func addTemplate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "t"},
		Short:   "Manage note templates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTemplateList(cmd)
	addTemplateShow(cmd)
	addTemplateCreate(cmd)
	addTemplateDelete(cmd)
	addTemplateExport(cmd)
	addTemplateImport(cmd)
	addTemplateWatch(cmd)

	topLevel.AddCommand(cmd)
}

func addTemplateList(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored templates.",
		Example: `
notebuilder template list
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			metas, err := svc.Templates(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.PrintJSON(metas)
			}
			(&printers.PrettyPrint{Out: oo.Writer()}).Templates(metas)
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addTemplateShow(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show the sections of a template in order.",
		Example: `
notebuilder template show "SOAP note" --show-id
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			doc, err := svc.Template(cmd.Context(), args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.PrintJSON(doc)
			}
			(&printers.PrettyPrint{ShowID: oo.ShowID, Out: oo.Writer()}).Sections(doc.Name, doc.Sections...)
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, oo)
	parent.AddCommand(cmd)
}

func addTemplateCreate(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty template.",
		Example: `
notebuilder template create "SOAP note"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			doc, err := svc.Create(cmd.Context(), args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.PrintJSON(doc.Meta())
			}
			_, _ = fmt.Fprintf(oo.Writer(), "created %q\n", doc.Name)
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addTemplateDelete(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:               "delete NAME",
		Short:             "Delete a template and all of its sections.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			if err := svc.Remove(cmd.Context(), args[0]); err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.PrintJSON(map[string]string{"deleted": args[0]})
			}
			_, _ = fmt.Fprintf(oo.Writer(), "deleted %q\n", args[0])
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addTemplateExport(parent *cobra.Command) {
	to := &options.TransferOptions{}
	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Write a template to stdout or a file.",
		Example: `
notebuilder template export "SOAP note" --format json -o soap.json
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cmd.SilenceUsage = true
			format, err := app.ParseFormat(to.Format)
			if err != nil {
				return err
			}
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if to.File != "" {
				f, err := os.Create(to.File)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}
			return svc.Export(cmd.Context(), args[0], format, w)
		},
	}
	options.AddExportArgs(cmd, to)
	parent.AddCommand(cmd)
}

func addTemplateImport(parent *cobra.Command) {
	to := &options.TransferOptions{}
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a template read from a YAML or JSON file.",
		Example: `
notebuilder template import soap.yaml --name "SOAP note (clinic B)"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			format := app.FormatForPath(args[0])
			if to.Format != "" {
				var err error
				if format, err = app.ParseFormat(to.Format); err != nil {
					return err
				}
			}
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := svc.Import(cmd.Context(), f, format, to.Name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %q with %d sections\n", doc.Name, len(doc.Sections))
			return nil
		},
	}
	options.AddImportArgs(cmd, to)
	parent.AddCommand(cmd)
}

func addTemplateWatch(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever a stored template changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt)
			defer stop()
			events, err := svc.Watch(ctx)
			if err != nil {
				return err
			}
			for ev := range events {
				if ev.Template == "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ev.Type)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ev.Type, ev.Template)
			}
			return nil
		},
	}
	parent.AddCommand(cmd)
}
