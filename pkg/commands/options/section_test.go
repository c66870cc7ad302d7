package options

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/section"
)

func parse(t *testing.T, args ...string) *SectionOptions {
	t.Helper()
	o := &SectionOptions{}
	cmd := &cobra.Command{Use: "test"}
	AddKindArgs(cmd, o)
	AddSectionArgs(cmd, o)
	AddPlacementArgs(cmd, o)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return o
}

func TestApplyChecklist(t *testing.T) {
	o := parse(t, "--kind", "checklist", "--name", "ROS",
		"--button", "Normal|WNL", "--button", "Abnormal | See below",
		"--not-discussed", "alert-provider", "--hide-empty")
	kind, err := o.ParseKind()
	if err != nil || kind != section.KindChecklist {
		t.Fatalf("ParseKind = %q, %v", kind, err)
	}
	ed, _ := editor.New(kind)
	if err := o.Apply(ed); err != nil {
		t.Fatalf("apply: %v", err)
	}
	draft, err := ed.Commit()
	if err != nil {
		t.Fatalf("commit: %v (%v)", err, ed.Problems())
	}
	body := draft.Body.(section.Checklist)
	var got []section.ChecklistItem
	for _, it := range body.Items {
		it.ID = ""
		got = append(got, it)
	}
	want := []section.ChecklistItem{{ButtonLabel: "Normal", InsertText: "WNL"}, {ButtonLabel: "Abnormal", InsertText: "See below"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if body.NotDiscussedBehavior != section.NotDiscussedAlertProvider || !body.HideEmptyItems {
		t.Fatalf("policies not applied: %+v", body)
	}
}

func TestApplyExamListEditShrinksItems(t *testing.T) {
	sec := section.Section{ID: "x", Name: "Exam", Body: section.ExamList{
		Items: []section.ExamItem{
			{ID: "1", SubsectionTitle: "Heart", ReportInstructions: "a"},
			{ID: "2", SubsectionTitle: "Lungs", ReportInstructions: "b"},
			{ID: "3", SubsectionTitle: "Skin", ReportInstructions: "c"},
		},
		NotDiscussedBehavior: section.NotDiscussedLeaveBlank,
		NormalLimitsBehavior: section.NormalLimitsSummarizeDiscussion,
	}}
	ed, err := editor.ForSection(sec)
	if err != nil {
		t.Fatalf("editor: %v", err)
	}
	o := parse(t, "--item", "Head|Inspect|Normocephalic", "--normal-limits", "use_specified_text")
	if err := o.Apply(ed); err != nil {
		t.Fatalf("apply: %v", err)
	}
	body := ed.Body().(section.ExamList)
	want := []section.ExamItem{{ID: "1", SubsectionTitle: "Head", ReportInstructions: "Inspect", NormalText: "Normocephalic"}}
	if diff := cmp.Diff(want, body.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if body.NormalLimitsBehavior != section.NormalLimitsUseSpecifiedText {
		t.Fatalf("normal limits not applied")
	}
	if ed.Name() != "Exam" {
		t.Fatalf("unset --name changed the name to %q", ed.Name())
	}
}

func TestApplyRejectsForeignFlags(t *testing.T) {
	cases := map[section.Kind][]string{
		section.KindStaticText:    {"--instructions", "x"},
		section.KindParagraph:     {"--text", "x"},
		section.KindSectionHeader: {"--button", "a|b"},
		section.KindChecklist:     {"--normal-limits", "highlight_abnormal"},
		section.KindExamList:      {"--button", "a|b"},
	}
	for kind, args := range cases {
		ed, _ := editor.New(kind)
		if err := parse(t, args...).Apply(ed); err == nil {
			t.Fatalf("%s accepted %v", kind, args)
		}
	}
}

func TestApplyText(t *testing.T) {
	ed, _ := editor.New(section.KindParagraph)
	if err := parse(t, "--name", "HPI", "--instructions", "Summarize").Apply(ed); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !ed.CanCommit() {
		t.Fatalf("expected committable paragraph: %v", ed.Problems())
	}
}

func TestAnchorDefaultsToEnd(t *testing.T) {
	a, err := parse(t).Anchor()
	if err != nil || a != placement.AtEnd() {
		t.Fatalf("Anchor() = %v, %v", a, err)
	}
	a, err = parse(t, "--at", "before:abc").Anchor()
	if err != nil || a != placement.BeforeID("abc") {
		t.Fatalf("Anchor() = %v, %v", a, err)
	}
}

func TestParseItems(t *testing.T) {
	if _, err := ParseExamItem("only title"); err == nil {
		t.Fatalf("exam item without instructions accepted")
	}
	if _, err := ParseChecklistItem("no separator"); err == nil {
		t.Fatalf("checklist item without insert text accepted")
	}
	item, err := ParseExamItem("Heart|Rate|RRR|extra")
	if err != nil || item.NormalText != "RRR|extra" {
		t.Fatalf("ParseExamItem = %+v, %v", item, err)
	}
}

func TestRequiresKind(t *testing.T) {
	if _, err := parse(t).ParseKind(); err == nil {
		t.Fatalf("missing --kind accepted")
	}
}
