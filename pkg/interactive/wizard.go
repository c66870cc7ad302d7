// Package interactive asks the user for a new section one prompt at a time
// and feeds the answers through an add-section flow.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/flow"
	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/printers"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/template"
)

// Wizard runs promptui prompts against In and Out. In defaults to os.Stdin.
// A terminal is read key by key; any other input is read one line per
// prompt.
type Wizard struct {
	In  io.Reader
	Out io.Writer

	lines *lineReader
}

func (w *Wizard) in() io.ReadCloser {
	src := w.In
	if src == nil {
		src = os.Stdin
	}
	if f, ok := src.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		if f == os.Stdin {
			// promptui falls back to a cancelable os.Stdin.
			return nil
		}
		return io.NopCloser(f)
	}
	if w.lines == nil {
		w.lines = newLineReader(src)
	}
	return w.lines.next()
}

func (w *Wizard) out() io.WriteCloser {
	if w.Out == nil {
		return nopWriteCloser{os.Stdout}
	}
	return nopWriteCloser{w.Out}
}

// Target is what the wizard adds a section to.
type Target interface {
	Sections() []section.Section
	StartAdd() *flow.AddSectionFlow
	CommitAdd(f *flow.AddSectionFlow) (section.Section, error)
}

// AddSection prompts for a kind, its fields, and a place, then commits the
// new section to target. Interrupting any prompt cancels the flow.
func (w *Wizard) AddSection(target Target) (section.Section, error) {
	f := target.StartAdd()
	sec, err := w.addSection(target, f)
	if err != nil {
		f.Cancel()
	}
	return sec, err
}

func (w *Wizard) addSection(target Target, f *flow.AddSectionFlow) (section.Section, error) {
	kind, err := w.selectKind()
	if err != nil {
		return section.Section{}, err
	}
	ed, err := f.ChooseKind(kind)
	if err != nil {
		return section.Section{}, err
	}
	if err := w.configure(ed); err != nil {
		return section.Section{}, err
	}
	if err := f.Configure(); err != nil {
		if errors.Is(err, editor.ErrIncomplete) {
			(&printers.PrettyPrint{Out: w.Out}).Problems(ed.Problems())
		}
		return section.Section{}, err
	}

	for {
		anchor, err := w.selectPlacement(target.Sections())
		if err != nil {
			return section.Section{}, err
		}
		if err := f.Place(anchor); err != nil {
			return section.Section{}, err
		}
		sec, err := target.CommitAdd(f)
		if errors.Is(err, template.ErrNotFound) {
			_, _ = fmt.Fprintln(w.out(), "That section no longer exists, pick another place.")
			continue
		}
		return sec, err
	}
}

func (w *Wizard) selectKind() (section.Kind, error) {
	choices := kindChoices()
	prompt := promptui.Select{
		HideHelp: true,
		Label:    "Section kind",
		Items:    choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Label | bold }} {{ .Description | green }}",
			Inactive: "   {{ .Label }} {{ .Description | cyan }}",
			Selected: "{{ .Label | bold }}",
		},
		Size:     len(choices),
		Searcher: func(input string, i int) bool { return matches(choices[i].Label, input) },
		Stdin:    w.in(),
		Stdout:   w.out(),
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return choices[i].Kind, nil
}

func (w *Wizard) selectPlacement(sections []section.Section) (placement.Anchor, error) {
	choices := placementChoices(sections)
	prompt := promptui.Select{
		HideHelp: true,
		Label:    "Place the new section",
		Items:    choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Label | bold }}",
			Inactive: "   {{ .Label }}",
			Selected: "{{ .Label | bold }}",
		},
		Size:      10,
		CursorPos: len(choices) - 1,
		Searcher:  func(input string, i int) bool { return matches(choices[i].Label, input) },
		Stdin:     w.in(),
		Stdout:    w.out(),
	}
	i, _, err := prompt.Run()
	if err != nil {
		return placement.Anchor{}, err
	}
	return choices[i].Anchor, nil
}

func (w *Wizard) selectPolicy(label string, choices []policyChoice) (string, error) {
	prompt := promptui.Select{
		HideHelp: true,
		Label:    label,
		Items:    choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Label | bold }} {{ .Value | faint }}",
			Inactive: "   {{ .Label }} {{ .Value | faint }}",
			Selected: "{{ .Label | bold }}",
		},
		Size:   len(choices),
		Stdin:  w.in(),
		Stdout: w.out(),
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return choices[i].Value, nil
}

func (w *Wizard) configure(ed editor.Editor) error {
	name, err := w.text("Section name", ed.Name(), true)
	if err != nil {
		return err
	}
	ed.SetName(name)

	switch e := ed.(type) {
	case *editor.TextEditor:
		text, err := w.text(e.Field(), e.Text(), true)
		if err != nil {
			return err
		}
		e.SetText(text)
	case *editor.HeaderEditor:
	case *editor.ExamListEditor:
		return w.configureExamList(e)
	case *editor.ChecklistEditor:
		return w.configureChecklist(e)
	default:
		return fmt.Errorf("interactive: no prompts for %s sections", ed.Kind())
	}
	return nil
}

func (w *Wizard) configureExamList(e *editor.ExamListEditor) error {
	for i := 0; ; i++ {
		_, _ = fmt.Fprintf(w.out(), "Item %d\n", i+1)
		title, err := w.text("Subsection title", "", true)
		if err != nil {
			return err
		}
		instructions, err := w.text("Report instructions", "", true)
		if err != nil {
			return err
		}
		normal, err := w.text("Normal text (optional)", "", false)
		if err != nil {
			return err
		}
		item := section.ExamItem{SubsectionTitle: title, ReportInstructions: instructions, NormalText: normal}
		if i == 0 {
			e.SetItem(0, item)
		} else {
			e.AddItem(item)
		}
		more, err := w.confirm("Add another item", false)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	nd, err := w.selectPolicy("When an item is not discussed", notDiscussedChoices())
	if err != nil {
		return err
	}
	e.SetNotDiscussedBehavior(section.NotDiscussedPolicy(nd))
	nl, err := w.selectPolicy("When an item is within normal limits", normalLimitsChoices())
	if err != nil {
		return err
	}
	e.SetNormalLimitsBehavior(section.NormalLimitsPolicy(nl))
	hide, err := w.confirm("Hide empty items", false)
	if err != nil {
		return err
	}
	e.SetHideEmptyItems(hide)
	return nil
}

func (w *Wizard) configureChecklist(e *editor.ChecklistEditor) error {
	for i := 0; ; i++ {
		_, _ = fmt.Fprintf(w.out(), "Item %d\n", i+1)
		label, err := w.text("Button label", "", true)
		if err != nil {
			return err
		}
		insert, err := w.text("Insert text", "", true)
		if err != nil {
			return err
		}
		item := section.ChecklistItem{ButtonLabel: label, InsertText: insert}
		if i == 0 {
			e.SetItem(0, item)
		} else {
			e.AddItem(item)
		}
		more, err := w.confirm("Add another item", false)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	nd, err := w.selectPolicy("When an item is not discussed", notDiscussedChoices())
	if err != nil {
		return err
	}
	e.SetNotDiscussedBehavior(section.NotDiscussedPolicy(nd))
	hide, err := w.confirm("Hide empty items", false)
	if err != nil {
		return err
	}
	e.SetHideEmptyItems(hide)
	return nil
}
