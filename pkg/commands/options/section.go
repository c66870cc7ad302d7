package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/section"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Prompt for the section kind, fields and placement.`)
}

// SectionOptions holds the flags that describe a section body.
type SectionOptions struct {
	Kind         string
	Name         string
	Text         string
	Instructions string
	Items        []string
	Buttons      []string
	NotDiscussed string
	NormalLimits string
	HideEmpty    bool
	At           string

	flags *pflag.FlagSet
}

func AddKindArgs(cmd *cobra.Command, o *SectionOptions) {
	names := make([]string, 0, len(section.AllKinds()))
	for _, k := range section.AllKinds() {
		names = append(names, string(k))
	}
	cmd.Flags().StringVar(&o.Kind, "kind", "",
		fmt.Sprintf("Section kind. One of %s.", strings.Join(names, ", ")))
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func AddSectionArgs(cmd *cobra.Command, o *SectionOptions) {
	o.flags = cmd.Flags()
	cmd.Flags().StringVar(&o.Name, "name", "",
		"Section name shown in the note.")
	cmd.Flags().StringVar(&o.Text, "text", "",
		"Verbatim text of a static_text section.")
	cmd.Flags().StringVar(&o.Instructions, "instructions", "",
		"Generation instructions of a paragraph or bulleted_list section.")
	cmd.Flags().StringArrayVar(&o.Items, "item", nil,
		`Exam list item as "title|report instructions|normal text"; repeat for more items.`)
	cmd.Flags().StringArrayVar(&o.Buttons, "button", nil,
		`Checklist item as "button label|insert text"; repeat for more items.`)
	cmd.Flags().StringVar(&o.NotDiscussed, "not-discussed", "",
		"What to do with items not discussed. One of leave_blank, default_to_normal, alert_provider.")
	cmd.Flags().StringVar(&o.NormalLimits, "normal-limits", "",
		"What to write for findings within normal limits. One of summarize_discussion, use_specified_text, highlight_abnormal.")
	cmd.Flags().BoolVar(&o.HideEmpty, "hide-empty", false,
		"Hide list items with nothing to report.")
}

func AddPlacementArgs(cmd *cobra.Command, o *SectionOptions) {
	cmd.Flags().StringVar(&o.At, "at", "end",
		"Where to insert the section: start, end, after:ID or before:ID.")
}

// ParseKind returns the kind named by --kind.
func (o *SectionOptions) ParseKind() (section.Kind, error) {
	if strings.TrimSpace(o.Kind) == "" {
		return "", fmt.Errorf("--kind is required")
	}
	return section.ParseKind(o.Kind)
}

// Anchor returns the placement named by --at.
func (o *SectionOptions) Anchor() (placement.Anchor, error) {
	return placement.Parse(o.At)
}

func (o *SectionOptions) changed(name string) bool {
	if o.flags == nil {
		return false
	}
	return o.flags.Changed(name)
}

// Apply copies every flag that was set onto ed. Flags that do not belong to
// the editor's kind are an error.
func (o *SectionOptions) Apply(ed editor.Editor) error {
	if o.changed("name") {
		ed.SetName(o.Name)
	}
	kind := ed.Kind()
	reject := func(flags ...string) error {
		for _, f := range flags {
			if o.changed(f) {
				return fmt.Errorf("--%s does not apply to %s sections", f, kind)
			}
		}
		return nil
	}

	switch e := ed.(type) {
	case *editor.TextEditor:
		other := "instructions"
		if e.Field() == "instructions" {
			other = "text"
		}
		if err := reject(other, "item", "button", "not-discussed", "normal-limits", "hide-empty"); err != nil {
			return err
		}
		if o.changed(e.Field()) {
			if e.Field() == "text" {
				e.SetText(o.Text)
			} else {
				e.SetText(o.Instructions)
			}
		}
	case *editor.HeaderEditor:
		return reject("text", "instructions", "item", "button", "not-discussed", "normal-limits", "hide-empty")
	case *editor.ExamListEditor:
		if err := reject("text", "instructions", "button"); err != nil {
			return err
		}
		if o.changed("item") {
			items := make([]section.ExamItem, 0, len(o.Items))
			for _, raw := range o.Items {
				item, err := ParseExamItem(raw)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			replaceItems(len(items), len(e.Items()), func(i int) { e.SetItem(i, items[i]) },
				func(i int) { e.AddItem(items[i]) }, func(i int) { e.RemoveItem(i) })
		}
		if o.changed("not-discussed") {
			p, err := section.ParseNotDiscussed(o.NotDiscussed)
			if err != nil {
				return err
			}
			e.SetNotDiscussedBehavior(p)
		}
		if o.changed("normal-limits") {
			p, err := section.ParseNormalLimits(o.NormalLimits)
			if err != nil {
				return err
			}
			e.SetNormalLimitsBehavior(p)
		}
		if o.changed("hide-empty") {
			e.SetHideEmptyItems(o.HideEmpty)
		}
	case *editor.ChecklistEditor:
		if err := reject("text", "instructions", "item", "normal-limits"); err != nil {
			return err
		}
		if o.changed("button") {
			items := make([]section.ChecklistItem, 0, len(o.Buttons))
			for _, raw := range o.Buttons {
				item, err := ParseChecklistItem(raw)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			replaceItems(len(items), len(e.Items()), func(i int) { e.SetItem(i, items[i]) },
				func(i int) { e.AddItem(items[i]) }, func(i int) { e.RemoveItem(i) })
		}
		if o.changed("not-discussed") {
			p, err := section.ParseNotDiscussed(o.NotDiscussed)
			if err != nil {
				return err
			}
			e.SetNotDiscussedBehavior(p)
		}
		if o.changed("hide-empty") {
			e.SetHideEmptyItems(o.HideEmpty)
		}
	}
	return nil
}

// replaceItems overwrites the first want items, appends the rest and drops
// any surplus from the end. Existing items keep their ids.
func replaceItems(want, have int, set, add, remove func(i int)) {
	for i := 0; i < want; i++ {
		if i < have {
			set(i)
		} else {
			add(i)
		}
	}
	for i := have - 1; i >= want && i > 0; i-- {
		remove(i)
	}
}

// ParseExamItem reads "title|report instructions|normal text". The normal
// text is optional.
func ParseExamItem(raw string) (section.ExamItem, error) {
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) < 2 {
		return section.ExamItem{}, fmt.Errorf("--item %q: want \"title|report instructions|normal text\"", raw)
	}
	item := section.ExamItem{
		SubsectionTitle:    strings.TrimSpace(parts[0]),
		ReportInstructions: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		item.NormalText = strings.TrimSpace(parts[2])
	}
	return item, nil
}

// ParseChecklistItem reads "button label|insert text".
func ParseChecklistItem(raw string) (section.ChecklistItem, error) {
	label, insert, ok := strings.Cut(raw, "|")
	if !ok {
		return section.ChecklistItem{}, fmt.Errorf("--button %q: want \"button label|insert text\"", raw)
	}
	return section.ChecklistItem{ButtonLabel: strings.TrimSpace(label), InsertText: strings.TrimSpace(insert)}, nil
}
