package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/notebuilder/pkg/section"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
}

func newPersistence(t *testing.T) (Persistence, string) {
	t.Helper()
	base := t.TempDir()
	p, err := Load(testConfig{path: base}, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p, base
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, _ := newPersistence(t)
	doc := &Document{Name: "Annual physical", Sections: []section.Section{
		{ID: "s1", Name: "Exam", Body: section.ExamList{
			Items: []section.ExamItem{{ID: "i1", SubsectionTitle: "Heart", ReportInstructions: "Rhythm", NormalText: "RRR"}},
			NotDiscussedBehavior: section.NotDiscussedLeaveBlank,
			NormalLimitsBehavior: section.NormalLimitsUseSpecifiedText,
		}},
		{ID: "s2", Name: "Plan", Body: section.BulletedList{Instructions: "One bullet per problem"}},
	}}
	if err := p.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := p.Load("Annual physical")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Document{Schema: CurrentSchema, Name: "Annual physical", Updated: fixedClock(), Sections: doc.Sections}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	p, _ := newPersistence(t)
	if _, err := p.Load("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if err := p.Delete("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if p.Exists("nope") {
		t.Fatalf("Exists reported a missing template")
	}
}

func TestListSortedAndDelete(t *testing.T) {
	p, _ := newPersistence(t)
	for _, name := range []string{"Follow up", "Annual/physical", "Consult"} {
		if err := p.Save(&Document{Name: name}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	names := func() []string {
		var out []string
		for _, m := range p.List(context.Background()) {
			out = append(out, m.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"Annual/physical", "Consult", "Follow up"}, names()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if err := p.Delete("Consult"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff([]string{"Annual/physical", "Follow up"}, names()); diff != "" {
		t.Fatalf("list after delete (-want +got):\n%s", diff)
	}
}

func TestListSkipsCorruptFiles(t *testing.T) {
	p, base := newPersistence(t)
	if err := p.Save(&Document{Name: "Good"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	key, _ := toKey("Broken")
	if err := os.WriteFile(filepath.Join(base, templatesDir, key), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	metas := p.List(context.Background())
	if len(metas) != 1 || metas[0].Name != "Good" {
		t.Fatalf("unexpected listing %+v", metas)
	}
}

func TestSaveRequiresName(t *testing.T) {
	p, _ := newPersistence(t)
	if err := p.Save(&Document{Name: "  "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	for _, name := range []string{"SOAP", "a/b", "Ünïcode ✓", "??>>"} {
		key, err := toKey(name)
		if err != nil {
			t.Fatalf("toKey(%q): %v", name, err)
		}
		if got := fromKey(key); got != name {
			t.Fatalf("fromKey(toKey(%q)) = %q", name, got)
		}
	}
}
