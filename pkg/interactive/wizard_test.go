package interactive

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/manifoldco/promptui"

	"tableflip.dev/notebuilder/pkg/flow"
	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/template"
)

const (
	keyDown = "\x1b[B"
	keyUp   = "\x1b[A"
)

// script joins one answer per prompt.
func script(answers ...string) io.Reader {
	return strings.NewReader(strings.Join(answers, "\n") + "\n")
}

type storeTarget struct {
	store *template.Store
	// beforeCommit runs once, right before the first commit.
	beforeCommit func()
}

func (t *storeTarget) Sections() []section.Section { return t.store.Snapshot() }

func (t *storeTarget) StartAdd() *flow.AddSectionFlow { return flow.StartAddSection(t.store) }

func (t *storeTarget) CommitAdd(f *flow.AddSectionFlow) (section.Section, error) {
	if hook := t.beforeCommit; hook != nil {
		t.beforeCommit = nil
		hook()
	}
	return f.Commit()
}

func newTarget(t *testing.T, seed ...section.Section) *storeTarget {
	t.Helper()
	store, err := template.New(seed)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return &storeTarget{store: store}
}

func header(id, name string) section.Section {
	return section.Section{ID: id, Name: name, Body: section.SectionHeader{}}
}

func TestLineReaderOneLinePerPrompt(t *testing.T) {
	lr := newLineReader(strings.NewReader("first\rsecond\r\nthird\nlast"))
	for _, want := range []string{"first\r", "second\r", "third\r", "last\r", ""} {
		got, err := io.ReadAll(lr.next())
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != want {
			t.Fatalf("next() = %q, want %q", got, want)
		}
	}
}

func TestTextPromptsReadSuccessiveLines(t *testing.T) {
	w := &Wizard{In: strings.NewReader("first\rsecond\r"), Out: &bytes.Buffer{}}
	for _, want := range []string{"first", "second"} {
		got, err := w.text("Answer", "", true)
		if err != nil {
			t.Fatalf("text: %v", err)
		}
		if got != want {
			t.Fatalf("text() = %q, want %q", got, want)
		}
	}
	if _, err := w.text("Answer", "", true); !errors.Is(err, promptui.ErrEOF) {
		t.Fatalf("expected ErrEOF once input is used up, got %v", err)
	}
}

func TestAddSectionParagraph(t *testing.T) {
	target := newTarget(t)
	w := &Wizard{In: script(keyDown, "HPI", "Summarize", ""), Out: &bytes.Buffer{}}

	sec, err := w.AddSection(target)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if sec.Name != "HPI" {
		t.Fatalf("unexpected name %q", sec.Name)
	}
	if diff := cmp.Diff(section.Body(section.Paragraph{Instructions: "Summarize"}), sec.Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{sec.ID}, target.store.IDs()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
}

func TestAddSectionChecklist(t *testing.T) {
	target := newTarget(t, header("h", "Subjective"))
	w := &Wizard{
		In: script(
			strings.Repeat(keyDown, 5), // checklist
			"ROS",
			"Normal", "WNL", "y",
			"Abnormal", "See below", "",
			keyDown+keyDown, // alert provider
			"y",
			keyUp+keyUp, // at the start
		),
		Out: &bytes.Buffer{},
	}

	sec, err := w.AddSection(target)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	body, ok := sec.Body.(section.Checklist)
	if !ok {
		t.Fatalf("expected a checklist, got %T", sec.Body)
	}
	var got [][2]string
	for _, item := range body.Items {
		if item.ID == "" {
			t.Fatalf("item without id: %+v", item)
		}
		got = append(got, [2]string{item.ButtonLabel, item.InsertText})
	}
	want := [][2]string{{"Normal", "WNL"}, {"Abnormal", "See below"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if body.NotDiscussedBehavior != section.NotDiscussedAlertProvider || !body.HideEmptyItems {
		t.Fatalf("unexpected policies %+v", body)
	}
	if diff := cmp.Diff([]string{sec.ID, "h"}, target.store.IDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddSectionRepromptsWhenAnchorIsDeleted(t *testing.T) {
	target := newTarget(t, header("a", "Alpha"), header("b", "Beta"))
	target.beforeCommit = func() {
		if _, err := target.store.DeleteByID("a"); err != nil {
			t.Fatalf("delete anchor: %v", err)
		}
	}
	out := &bytes.Buffer{}
	w := &Wizard{
		In: script(
			keyDown+keyDown, // section header
			"Plan",
			keyUp+keyUp, // after Alpha
			"",          // at the end
		),
		Out: out,
	}

	sec, err := w.AddSection(target)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if diff := cmp.Diff([]string{"b", sec.ID}, target.store.IDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "no longer exists") {
		t.Fatalf("expected a re-prompt message, got:\n%s", out.String())
	}
}

func TestAddSectionCancelsOnEOF(t *testing.T) {
	target := newTarget(t)
	w := &Wizard{In: script(keyDown, "HPI"), Out: &bytes.Buffer{}}

	if _, err := w.AddSection(target); err == nil {
		t.Fatalf("expected an error when input runs out")
	}
	if target.store.Len() != 0 {
		t.Fatalf("store changed: %v", target.store.IDs())
	}
}

func TestPlacementChoices(t *testing.T) {
	got := placementChoices([]section.Section{
		{ID: "a", Name: "Subjective"},
		{ID: "b", Name: "Objective"},
	})
	want := []placementChoice{
		{Label: "At the start", Anchor: placement.AtStart()},
		{Label: "After 0. Subjective", Anchor: placement.AfterID("a")},
		{Label: "After 1. Objective", Anchor: placement.AfterID("b")},
		{Label: "At the end", Anchor: placement.AtEnd()},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestPlacementChoicesEmpty(t *testing.T) {
	got := placementChoices(nil)
	if len(got) != 2 || got[0].Anchor != placement.AtStart() || got[1].Anchor != placement.AtEnd() {
		t.Fatalf("unexpected choices %+v", got)
	}
}

func TestKindChoicesCoverEveryKind(t *testing.T) {
	choices := kindChoices()
	if len(choices) != len(section.AllKinds()) {
		t.Fatalf("expected %d choices, got %d", len(section.AllKinds()), len(choices))
	}
	for i, k := range section.AllKinds() {
		if choices[i].Kind != k || choices[i].Label == "" {
			t.Fatalf("choice %d: %+v", i, choices[i])
		}
	}
}

func TestPolicyChoicesAreValid(t *testing.T) {
	for _, c := range notDiscussedChoices() {
		if !section.NotDiscussedPolicy(c.Value).Valid() || c.Label == c.Value {
			t.Fatalf("bad not-discussed choice %+v", c)
		}
	}
	for _, c := range normalLimitsChoices() {
		if !section.NormalLimitsPolicy(c.Value).Valid() || c.Label == c.Value {
			t.Fatalf("bad normal-limits choice %+v", c)
		}
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"y": true, "Yes": true, "1": true, "n": false, "no": false, "False": false} {
		got, err := ParseBool(in)
		if err != nil || got != want {
			t.Fatalf("ParseBool(%q) = %t, %v", in, got, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatalf("maybe accepted")
	}
}

func TestMatches(t *testing.T) {
	if !matches("Exam List", "examl") {
		t.Fatalf("expected match ignoring case and spaces")
	}
	if matches("Checklist", "exam") {
		t.Fatalf("unexpected match")
	}
}
