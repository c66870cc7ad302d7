package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/store"
)

func init() {
	color.NoColor = true
}

func TestSectionsListsEveryKind(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Sections("SOAP",
		section.Section{ID: "1", Name: "Subjective", Body: section.SectionHeader{}},
		section.Section{ID: "2", Name: "ROS", Body: section.Checklist{
			Items:                []section.ChecklistItem{{ID: "a", ButtonLabel: "Normal", InsertText: "WNL"}},
			NotDiscussedBehavior: section.NotDiscussedAlertProvider,
			HideEmptyItems:       true,
		}},
	)
	got := buf.String()
	for _, want := range []string{"SOAP - 2 sections", "Subjective", "ROS", "Normal", "WNL", "alert_provider", "empty items hidden"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, " 0 ") || !strings.Contains(got, " 1 ") {
		t.Fatalf("expected positions 0 and 1:\n%s", got)
	}
}

func TestShowID(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowID: true}
	pp.Section(0, section.Section{ID: "abc", Name: "Plan", Body: section.Paragraph{Instructions: "Write it"}})
	if !strings.HasPrefix(buf.String(), "abc ") {
		t.Fatalf("expected id prefix, got %q", buf.String())
	}
}

func TestTemplatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Templates(nil)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none, got %q", buf.String())
	}
}

func TestTemplatesTable(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Templates([]store.Meta{{Name: "Consult", Sections: 4, Updated: time.Now()}, {Name: "Empty"}})
	got := buf.String()
	for _, want := range []string{"Template", "Consult", "4", "Empty", "-"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
