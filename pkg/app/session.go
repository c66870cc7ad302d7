package app

import (
	"log/slog"
	"sync"

	"tableflip.dev/notebuilder/pkg/flow"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/store"
	"tableflip.dev/notebuilder/pkg/template"
)

// Session is one open template. Its store is the only copy of the sections
// that may be changed; an observer saves every new snapshot.
type Session struct {
	name        string
	store       *template.Store
	persistence store.Persistence
	log         *slog.Logger
	cancel      func()

	mu  sync.Mutex
	err error
}

// Name returns the template name.
func (s *Session) Name() string { return s.name }

// Store exposes the section store, e.g. to subscribe a renderer.
func (s *Session) Store() *template.Store { return s.store }

// Sections returns the current ordered sections.
func (s *Session) Sections() []section.Section { return s.store.Snapshot() }

// Err returns the first autosave failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops autosaving and reports any autosave failure.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.Err()
}

func (s *Session) autosave(sections []section.Section) {
	doc := &store.Document{Name: s.name, Sections: sections}
	if err := s.persistence.Save(doc); err != nil {
		s.log.Error("autosave failed", "err", err)
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
		return
	}
	s.log.Debug("template saved", "sections", len(sections))
}

// StartAdd begins an add-section flow on this template.
func (s *Session) StartAdd() *flow.AddSectionFlow {
	return flow.StartAddSection(s.store)
}

// CommitAdd finishes an add flow started with StartAdd.
func (s *Session) CommitAdd(f *flow.AddSectionFlow) (section.Section, error) {
	sec, err := f.Commit()
	if err != nil {
		return section.Section{}, err
	}
	s.applied("add", sec.ID)
	return sec, nil
}

// StartEdit opens an edit flow for the section with the given id.
func (s *Session) StartEdit(id string) (*flow.EditSectionFlow, error) {
	return flow.StartEditSection(s.store, id)
}

// CommitEdit finishes an edit flow started with StartEdit.
func (s *Session) CommitEdit(f *flow.EditSectionFlow) (section.Section, error) {
	sec, err := f.Commit()
	if err != nil {
		return section.Section{}, err
	}
	s.applied("edit", sec.ID)
	return sec, nil
}

// Move moves the section with the given id to index to. An index outside
// the collection is reported as not found instead of panicking.
func (s *Session) Move(id string, to int) error {
	from, err := s.store.Index(id)
	if err != nil {
		return err
	}
	if to < 0 || to >= s.store.Len() {
		return &template.NotFoundError{Index: to}
	}
	s.store.Reorder(from, to)
	s.applied("move", id)
	return nil
}

// Delete removes the section with the given id.
func (s *Session) Delete(id string) (section.Section, error) {
	sec, err := s.store.DeleteByID(id)
	if err != nil {
		return section.Section{}, err
	}
	s.applied("delete", id)
	return sec, nil
}

// Duplicate copies the section with the given id directly after itself.
func (s *Session) Duplicate(id string) (section.Section, error) {
	dup, err := s.store.Duplicate(id)
	if err != nil {
		return section.Section{}, err
	}
	s.applied("duplicate", dup.ID, "source", id)
	return dup, nil
}

// Rename changes the name of the section with the given id.
func (s *Session) Rename(id, name string) error {
	if err := s.store.Rename(id, name); err != nil {
		return err
	}
	s.applied("rename", id)
	return nil
}

func (s *Session) applied(op, id string, attrs ...any) {
	s.log.Info("mutation applied", append([]any{"op", op, "section", id}, attrs...)...)
}
