package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/store"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " section")
	default:
		_, _ = c.Fprintln(pp.out(), " sections")
	}
}

// Templates prints one row per stored template.
func (pp *PrettyPrint) Templates(metas []store.Meta) {
	if len(metas) == 0 {
		pp.none()
		return
	}
	b := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(b.Sprint("Template"), b.Sprint("Sections"), b.Sprint("Updated"))
	for _, m := range metas {
		tbl.AddRow(m.Name, m.Sections, formatTime(m.Updated))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Sections prints an ordered section list under a titled header.
func (pp *PrettyPrint) Sections(title string, sections ...section.Section) {
	pp.TitleWithCount(title, len(sections))
	if len(sections) == 0 {
		pp.none()
		return
	}
	for i, s := range sections {
		pp.section(i, s)
	}
	pp.NewLine()
}

// Section prints one section with its position.
func (pp *PrettyPrint) Section(index int, s section.Section) {
	pp.section(index, s)
}

func (pp *PrettyPrint) section(index int, s section.Section) {
	w := pp.out()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	k := color.New(color.FgCyan)
	f := color.New(color.Faint)

	if pp.ShowID {
		_, _ = y.Fprint(w, s.ID)
		_, _ = y.Fprint(w, strings.Repeat(" ", max(1, len(spacing)-len(s.ID))))
	}
	_, _ = fmt.Fprintf(w, "%2d ", index)
	_, _ = k.Fprintf(w, "%-14s ", s.Kind().Label())
	_, _ = fmt.Fprint(w, s.Name)
	if summary := s.Summary(); summary != "" {
		_, _ = f.Fprintf(w, "  %s", summary)
	}
	_, _ = fmt.Fprintln(w)

	indent := "     "
	if pp.ShowID {
		indent = spacing + indent
	}
	switch b := s.Body.(type) {
	case section.ExamList:
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, item := range b.Items {
			tbl.AddRow(indent+"•", item.SubsectionTitle, f.Sprint(item.ReportInstructions), item.NormalText)
		}
		_, _ = fmt.Fprintln(w, tbl)
		_, _ = f.Fprintf(w, "%snot discussed: %s, normal limits: %s%s\n", indent, b.NotDiscussedBehavior, b.NormalLimitsBehavior, hideEmpty(b.HideEmptyItems))
	case section.Checklist:
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, item := range b.Items {
			tbl.AddRow(indent+"☐", item.ButtonLabel, f.Sprint(item.InsertText))
		}
		_, _ = fmt.Fprintln(w, tbl)
		_, _ = f.Fprintf(w, "%snot discussed: %s%s\n", indent, b.NotDiscussedBehavior, hideEmpty(b.HideEmptyItems))
	}
}

// Problems prints field-level completeness failures.
func (pp *PrettyPrint) Problems(problems []section.Problem) {
	r := color.New(color.FgRed)
	for _, p := range problems {
		_, _ = r.Fprintf(pp.out(), "  ✗ %s\n", p)
	}
}

// JSON prints v as indented JSON.
func (pp *PrettyPrint) JSON(v any) error {
	enc := json.NewEncoder(pp.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func hideEmpty(hide bool) string {
	if hide {
		return ", empty items hidden"
	}
	return ""
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
