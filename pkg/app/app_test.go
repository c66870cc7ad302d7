package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/store"
	"tableflip.dev/notebuilder/pkg/template"
)

type memoryPersistence struct {
	mu        sync.Mutex
	docs      map[string]*store.Document
	saves     int
	failSaves error
}

func newMemoryPersistence(docs ...*store.Document) *memoryPersistence {
	mp := &memoryPersistence{docs: make(map[string]*store.Document)}
	for _, d := range docs {
		mp.docs[d.Name] = cloneDocument(d)
	}
	return mp
}

func cloneDocument(d *store.Document) *store.Document {
	cp := *d
	cp.Sections = section.Clone(d.Sections)
	return &cp
}

func (m *memoryPersistence) List(_ context.Context) []store.Meta {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Meta, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d.Meta())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memoryPersistence) Load(name string) (*store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrTemplateNotFound, name)
	}
	return cloneDocument(d), nil
}

func (m *memoryPersistence) Save(doc *store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves != nil {
		return m.failSaves
	}
	m.saves++
	m.docs[doc.Name] = cloneDocument(doc)
	return nil
}

func (m *memoryPersistence) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[name]; !ok {
		return fmt.Errorf("%w: %q", store.ErrTemplateNotFound, name)
	}
	delete(m.docs, name)
	return nil
}

func (m *memoryPersistence) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[name]
	return ok
}

func (m *memoryPersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *memoryPersistence) stored(t *testing.T, name string) []section.Section {
	t.Helper()
	d, err := m.Load(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return d.Sections
}

func soapDocument() *store.Document {
	return &store.Document{Name: "SOAP", Sections: []section.Section{
		{ID: "s", Name: "Subjective", Body: section.SectionHeader{}},
		{ID: "hpi", Name: "HPI", Body: section.Paragraph{Instructions: "History of present illness"}},
		{ID: "ros", Name: "Review of systems", Body: section.Checklist{
			Items:                []section.ChecklistItem{{ID: "n", ButtonLabel: "Normal", InsertText: "WNL"}},
			NotDiscussedBehavior: section.NotDiscussedLeaveBlank,
		}},
	}}
}

func sectionIDs(sections []section.Section) []string {
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

func TestServiceRequiresPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Templates(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestCreateAndRemove(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	if _, err := svc.Create(ctx, " Consult "); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Consult"); !errors.Is(err, ErrTemplateExists) {
		t.Fatalf("expected ErrTemplateExists, got %v", err)
	}
	if _, err := svc.Create(ctx, "  "); err == nil {
		t.Fatalf("blank name accepted")
	}
	metas, _ := svc.Templates(ctx)
	if len(metas) != 1 || metas[0].Name != "Consult" {
		t.Fatalf("unexpected templates %+v", metas)
	}
	if err := svc.Remove(ctx, "Consult"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, "Consult"); !errors.Is(err, store.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestSessionAutosavesEveryMutation(t *testing.T) {
	mp := newMemoryPersistence(soapDocument())
	svc := &Service{Persistence: mp}
	sess, err := svc.Open(context.Background(), "SOAP")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sess.Close()

	if err := sess.Move("ros", 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"ros", "s", "hpi"}, sectionIDs(mp.stored(t, "SOAP"))); diff != "" {
		t.Fatalf("stored order after move (-want +got):\n%s", diff)
	}

	dup, err := sess.Duplicate("hpi")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.Name != "HPI (copy)" {
		t.Fatalf("unexpected duplicate name %q", dup.Name)
	}
	if _, err := sess.Delete("s"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff([]string{"ros", "hpi", dup.ID}, sectionIDs(mp.stored(t, "SOAP"))); diff != "" {
		t.Fatalf("stored order (-want +got):\n%s", diff)
	}
	if mp.saves != 3 {
		t.Fatalf("expected 3 saves, got %d", mp.saves)
	}
}

func TestSessionCopySuffix(t *testing.T) {
	mp := newMemoryPersistence(soapDocument())
	svc := &Service{Persistence: mp, CopySuffix: " #2"}
	sess, err := svc.Open(context.Background(), "SOAP")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	dup, err := sess.Duplicate("s")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.Name != "Subjective #2" {
		t.Fatalf("unexpected name %q", dup.Name)
	}
}

func TestSessionAddAndEditFlows(t *testing.T) {
	mp := newMemoryPersistence(soapDocument())
	svc := &Service{Persistence: mp}
	sess, err := svc.Open(context.Background(), "SOAP")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	f := sess.StartAdd()
	ed, err := f.ChooseKind(section.KindBulletedList)
	if err != nil {
		t.Fatalf("choose kind: %v", err)
	}
	ed.SetName("Plan")
	ed.(*editor.TextEditor).SetText("One bullet per problem")
	if err := f.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := f.Place(placement.BeforeID("ros")); err != nil {
		t.Fatalf("place: %v", err)
	}
	added, err := sess.CommitAdd(f)
	if err != nil {
		t.Fatalf("commit add: %v", err)
	}
	if diff := cmp.Diff([]string{"s", "hpi", added.ID, "ros"}, sectionIDs(mp.stored(t, "SOAP"))); diff != "" {
		t.Fatalf("stored order (-want +got):\n%s", diff)
	}

	ef, err := sess.StartEdit("hpi")
	if err != nil {
		t.Fatalf("start edit: %v", err)
	}
	ef.Editor().(*editor.TextEditor).SetText("Onset, location, duration")
	if _, err := sess.CommitEdit(ef); err != nil {
		t.Fatalf("commit edit: %v", err)
	}
	stored := mp.stored(t, "SOAP")
	if got := stored[1].Body.(section.Paragraph).Instructions; got != "Onset, location, duration" {
		t.Fatalf("edit not saved: %q", got)
	}
}

func TestSessionMoveOutOfRange(t *testing.T) {
	sess, err := (&Service{Persistence: newMemoryPersistence(soapDocument())}).Open(context.Background(), "SOAP")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := sess.Move("s", 3); !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := sess.Move("missing", 0); !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRecordsAutosaveFailure(t *testing.T) {
	mp := newMemoryPersistence(soapDocument())
	sess, err := (&Service{Persistence: mp}).Open(context.Background(), "SOAP")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	boom := errors.New("disk full")
	mp.failSaves = boom
	if err := sess.Rename("s", "S"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := sess.Close(); !errors.Is(err, boom) {
		t.Fatalf("expected autosave error from Close, got %v", err)
	}
}

func TestSessionCloseStopsAutosave(t *testing.T) {
	mp := newMemoryPersistence(soapDocument())
	sess, err := (&Service{Persistence: mp}).Open(context.Background(), "SOAP")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := sess.Delete("s"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mp.saves != 0 {
		t.Fatalf("closed session still saved")
	}
}

func TestOpenRejectsInvalidDocument(t *testing.T) {
	bad := &store.Document{Name: "Bad", Sections: []section.Section{
		{ID: "p", Name: "HPI", Body: section.Paragraph{}},
	}}
	_, err := (&Service{Persistence: newMemoryPersistence(bad)}).Open(context.Background(), "Bad")
	if !errors.Is(err, template.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			mp := newMemoryPersistence(soapDocument())
			svc := &Service{Persistence: mp}
			ctx := context.Background()

			var buf bytes.Buffer
			if err := svc.Export(ctx, "SOAP", format, &buf); err != nil {
				t.Fatalf("export: %v", err)
			}
			if _, err := svc.Import(ctx, bytes.NewReader(buf.Bytes()), format, ""); !errors.Is(err, ErrTemplateExists) {
				t.Fatalf("expected ErrTemplateExists, got %v", err)
			}
			doc, err := svc.Import(ctx, bytes.NewReader(buf.Bytes()), format, "SOAP copy")
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if doc.Name != "SOAP copy" {
				t.Fatalf("unexpected name %q", doc.Name)
			}
			if diff := cmp.Diff(soapDocument().Sections, mp.stored(t, "SOAP copy")); diff != "" {
				t.Fatalf("sections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImportRejectsIncompleteSections(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	in := `name: Broken
sections:
  - id: a
    name: Plan
    kind: checklist
    body:
      items:
        - buttonLabel: Normal
`
	_, err := svc.Import(context.Background(), strings.NewReader(in), FormatYAML, "")
	if !errors.Is(err, template.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if svc.Persistence.Exists("Broken") {
		t.Fatalf("invalid template was stored")
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatYAML, "YML": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("xml accepted")
	}
	if FormatForPath("x.JSON") != FormatJSON || FormatForPath("x.yaml") != FormatYAML {
		t.Fatalf("FormatForPath picked the wrong format")
	}
}

func TestSearch(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence(soapDocument())}
	results, err := svc.Search(context.Background(), "SOAP", "review")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 || results[0].Section.ID != "ros" || results[0].Index != 2 {
		t.Fatalf("unexpected results %+v", results)
	}
	all, _ := svc.Search(context.Background(), "SOAP", " ")
	if diff := cmp.Diff([]string{"s", "hpi", "ros"}, []string{all[0].Section.ID, all[1].Section.ID, all[2].Section.ID}); diff != "" {
		t.Fatalf("empty query order (-want +got):\n%s", diff)
	}
}

func TestSummary(t *testing.T) {
	mp := newMemoryPersistence(soapDocument(), &store.Document{Name: "Empty"})
	res, err := (&Service{Persistence: mp}).Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if res.Templates != 2 || res.Sections != 3 {
		t.Fatalf("unexpected totals %+v", res)
	}
	counts := map[section.Kind]int{}
	for _, kc := range res.Kinds {
		counts[kc.Kind] = kc.Count
	}
	want := map[section.Kind]int{
		section.KindStaticText:    0,
		section.KindParagraph:     1,
		section.KindSectionHeader: 1,
		section.KindBulletedList:  0,
		section.KindExamList:      0,
		section.KindChecklist:     1,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("kind counts (-want +got):\n%s", diff)
	}
}
