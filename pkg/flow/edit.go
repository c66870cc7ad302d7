package flow

import (
	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/template"
)

// EditSectionFlow changes the name and body of an existing section. It starts
// in ConfiguringBody and ends in Committed or Cancelled.
type EditSectionFlow struct {
	store  *template.Store
	id     string
	state  State
	editor editor.Editor
}

// StartEditSection opens an editor seeded from the section with the given id.
func StartEditSection(store *template.Store, id string) (*EditSectionFlow, error) {
	sec, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	ed, err := editor.ForSection(sec)
	if err != nil {
		return nil, err
	}
	return &EditSectionFlow{store: store, id: id, state: ConfiguringBody, editor: ed}, nil
}

// ID returns the id of the section being edited.
func (f *EditSectionFlow) ID() string { return f.id }

// State returns the current state.
func (f *EditSectionFlow) State() State { return f.state }

// Editor returns the editor holding the in-progress values.
func (f *EditSectionFlow) Editor() editor.Editor { return f.editor }

// Commit writes the edited values back. An incomplete editor returns
// editor.ErrIncomplete and the flow stays open. Any store error ends the
// flow as Cancelled: the section was removed or changed underneath it.
func (f *EditSectionFlow) Commit() (section.Section, error) {
	if err := expect("commit", f.state, ConfiguringBody); err != nil {
		return section.Section{}, err
	}
	if !f.editor.CanCommit() {
		return section.Section{}, editor.ErrIncomplete
	}
	draft, err := f.editor.Commit()
	if err != nil {
		return section.Section{}, err
	}
	if err := f.store.UpdateSection(f.id, draft.Name, draft.Body); err != nil {
		f.state = Cancelled
		return section.Section{}, err
	}
	f.state = Committed
	return f.store.Get(f.id)
}

// Cancel abandons the edit. It is a no-op on a finished flow.
func (f *EditSectionFlow) Cancel() {
	if f.state.Terminal() {
		return
	}
	f.editor.Cancel()
	f.state = Cancelled
}
