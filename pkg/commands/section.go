package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/notebuilder/pkg/app"
	"tableflip.dev/notebuilder/pkg/commands/options"
	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/interactive"
	"tableflip.dev/notebuilder/pkg/printers"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/template"
)

func addSection(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "section",
		Aliases: []string{"sections", "s"},
		Short:   "Add, change and arrange the sections of a template.",
		Long: `Sections are addressed by id or by position. A position is the
zero-based index shown by "notebuilder template show".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addSectionAdd(cmd)
	addSectionEdit(cmd)
	addSectionMove(cmd)
	addSectionDelete(cmd)
	addSectionDuplicate(cmd)
	addSectionFind(cmd)

	topLevel.AddCommand(cmd)
}

// withSession opens the named template and closes it after fn, reporting
// autosave failures.
func withSession(ctx context.Context, name string, fn func(*app.Session) error) (err error) {
	svc, _, err := loadService()
	if err != nil {
		return err
	}
	sess, err := svc.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(sess)
}

// resolveRef turns an id or a zero-based position into a section id.
func resolveRef(sess *app.Session, ref string) (string, error) {
	st := sess.Store()
	if _, err := st.Index(ref); err == nil {
		return ref, nil
	}
	if i, err := strconv.Atoi(ref); err == nil {
		ids := st.IDs()
		if i >= 0 && i < len(ids) {
			return ids[i], nil
		}
		return "", &template.NotFoundError{Index: i}
	}
	return "", &template.NotFoundError{ID: ref, Index: -1}
}

func incomplete(ed editor.Editor) error {
	parts := make([]string, 0)
	for _, p := range ed.Problems() {
		parts = append(parts, p.String())
	}
	return fmt.Errorf("%w: %s", editor.ErrIncomplete, strings.Join(parts, "; "))
}

func printSection(oo *options.OutputOptions, sess *app.Session, sec section.Section) error {
	if oo.JSON {
		return oo.PrintJSON(sec)
	}
	idx, err := sess.Store().Index(sec.ID)
	if err != nil {
		return err
	}
	(&printers.PrettyPrint{ShowID: true, Out: oo.Writer()}).Section(idx, sec)
	return nil
}

func addSectionAdd(parent *cobra.Command) {
	so := &options.SectionOptions{}
	oo := &options.OutputOptions{}
	io := &options.InteractiveOptions{}
	cmd := &cobra.Command{
		Use:   "add TEMPLATE",
		Short: "Add a section to a template.",
		Example: `
notebuilder section add "SOAP note" --kind paragraph --name HPI --instructions "History of present illness" --at start
notebuilder section add "SOAP note" --kind checklist --name ROS --button "Normal|WNL" --at after:<id>
notebuilder section add "SOAP note" --kind exam_list --name Exam --item "Heart|Rate and rhythm|RRR" --normal-limits use_specified_text
notebuilder section add "SOAP note" -i
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			err := withSession(cmd.Context(), args[0], func(sess *app.Session) error {
				if io.Interactive {
					w := &interactive.Wizard{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
					sec, err := w.AddSection(sess)
					if err != nil {
						return err
					}
					return printSection(oo, sess, sec)
				}

				kind, err := so.ParseKind()
				if err != nil {
					return err
				}
				anchor, err := so.Anchor()
				if err != nil {
					return err
				}
				f := sess.StartAdd()
				ed, err := f.ChooseKind(kind)
				if err != nil {
					return err
				}
				if err := so.Apply(ed); err != nil {
					f.Cancel()
					return err
				}
				if err := f.Configure(); err != nil {
					f.Cancel()
					if errors.Is(err, editor.ErrIncomplete) {
						return incomplete(ed)
					}
					return err
				}
				if err := f.Place(anchor); err != nil {
					f.Cancel()
					return err
				}
				sec, err := sess.CommitAdd(f)
				if err != nil {
					f.Cancel()
					return err
				}
				return printSection(oo, sess, sec)
			})
			return oo.HandleError(err)
		},
	}
	options.AddKindArgs(cmd, so)
	options.AddSectionArgs(cmd, so)
	options.AddPlacementArgs(cmd, so)
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addSectionEdit(parent *cobra.Command) {
	so := &options.SectionOptions{}
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "edit TEMPLATE SECTION",
		Short: "Change the name or body of a section. Only the flags given are changed.",
		Example: `
notebuilder section edit "SOAP note" 2 --instructions "One bullet per problem"
notebuilder section edit "SOAP note" <id> --button "Normal|WNL" --button "Abnormal|See below"
`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			err := withSession(cmd.Context(), args[0], func(sess *app.Session) error {
				id, err := resolveRef(sess, args[1])
				if err != nil {
					return err
				}
				f, err := sess.StartEdit(id)
				if err != nil {
					return err
				}
				if err := so.Apply(f.Editor()); err != nil {
					f.Cancel()
					return err
				}
				if !f.Editor().CanCommit() {
					f.Cancel()
					return incomplete(f.Editor())
				}
				sec, err := sess.CommitEdit(f)
				if err != nil {
					return err
				}
				return printSection(oo, sess, sec)
			})
			return oo.HandleError(err)
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addSectionMove(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "move TEMPLATE SECTION TO",
		Short: "Move a section to a new zero-based position.",
		Example: `
notebuilder section move "SOAP note" 3 0
`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return oo.HandleError(fmt.Errorf("TO must be a position: %w", err))
			}
			err = withSession(cmd.Context(), args[0], func(sess *app.Session) error {
				id, err := resolveRef(sess, args[1])
				if err != nil {
					return err
				}
				if err := sess.Move(id, to); err != nil {
					return err
				}
				return showSections(oo, sess)
			})
			return oo.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, oo)
	parent.AddCommand(cmd)
}

func addSectionDelete(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:               "delete TEMPLATE SECTION",
		Short:             "Remove a section from a template.",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			err := withSession(cmd.Context(), args[0], func(sess *app.Session) error {
				id, err := resolveRef(sess, args[1])
				if err != nil {
					return err
				}
				if _, err := sess.Delete(id); err != nil {
					return err
				}
				return showSections(oo, sess)
			})
			return oo.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, oo)
	parent.AddCommand(cmd)
}

func addSectionDuplicate(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:               "duplicate TEMPLATE SECTION",
		Aliases:           []string{"dup"},
		Short:             "Copy a section directly after itself.",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			err := withSession(cmd.Context(), args[0], func(sess *app.Session) error {
				id, err := resolveRef(sess, args[1])
				if err != nil {
					return err
				}
				dup, err := sess.Duplicate(id)
				if err != nil {
					return err
				}
				return printSection(oo, sess, dup)
			})
			return oo.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addSectionFind(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:               "find TEMPLATE QUERY",
		Short:             "Fuzzy search the sections of a template by name, kind and content.",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			results, err := svc.Search(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.PrintJSON(results)
			}
			pp := &printers.PrettyPrint{ShowID: oo.ShowID, Out: oo.Writer()}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(oo.Writer(), "no matching sections")
				return nil
			}
			for _, r := range results {
				pp.Section(r.Index, r.Section)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, oo)
	parent.AddCommand(cmd)
}

func showSections(oo *options.OutputOptions, sess *app.Session) error {
	sections := sess.Sections()
	if oo.JSON {
		return oo.PrintJSON(sections)
	}
	(&printers.PrettyPrint{ShowID: oo.ShowID, Out: oo.Writer()}).Sections(sess.Name(), sections...)
	return nil
}
