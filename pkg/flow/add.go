package flow

import (
	"errors"
	"fmt"

	"tableflip.dev/notebuilder/pkg/editor"
	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/template"
)

// AddSectionFlow adds one new section to a store:
//
//	ChoosingKind -> ConfiguringBody -> ChoosingPlacement -> Committed
//
// Cancel moves any open flow to Cancelled without touching the store.
type AddSectionFlow struct {
	store *template.Store
	state State

	editor editor.Editor
	draft  editor.Draft
	anchor *placement.Anchor
	added  section.Section
}

// StartAddSection begins a new add flow against store.
func StartAddSection(store *template.Store) *AddSectionFlow {
	return &AddSectionFlow{store: store, state: ChoosingKind}
}

// State returns the current state.
func (f *AddSectionFlow) State() State { return f.state }

// ChooseKind picks the kind of the new section and returns an empty editor
// for it.
func (f *AddSectionFlow) ChooseKind(kind section.Kind) (editor.Editor, error) {
	if err := expect("choose kind", f.state, ChoosingKind); err != nil {
		return nil, err
	}
	ed, err := editor.New(kind)
	if err != nil {
		return nil, err
	}
	f.editor = ed
	f.state = ConfiguringBody
	return ed, nil
}

// Editor returns the editor opened by ChooseKind, or nil before that.
func (f *AddSectionFlow) Editor() editor.Editor { return f.editor }

// Configure commits the editor. While the editor has problems it returns
// editor.ErrIncomplete and the flow stays in ConfiguringBody.
func (f *AddSectionFlow) Configure() error {
	if err := expect("configure", f.state, ConfiguringBody); err != nil {
		return err
	}
	draft, err := f.editor.Commit()
	if err != nil {
		return err
	}
	f.draft = draft
	f.state = ChoosingPlacement
	return nil
}

// Draft returns the configured name and body. It is only meaningful from
// ChoosingPlacement on.
func (f *AddSectionFlow) Draft() editor.Draft { return f.draft }

// Place records where the section goes. It may be called again to change
// the choice before Commit.
func (f *AddSectionFlow) Place(anchor placement.Anchor) error {
	if err := expect("place", f.state, ChoosingPlacement); err != nil {
		return err
	}
	if err := anchor.Validate(); err != nil {
		return err
	}
	f.anchor = &anchor
	return nil
}

// Commit inserts the section at the chosen place and returns it. When the
// anchor section is gone the flow stays in ChoosingPlacement so the caller
// can ask for a new place.
func (f *AddSectionFlow) Commit() (section.Section, error) {
	if err := expect("commit", f.state, ChoosingPlacement); err != nil {
		return section.Section{}, err
	}
	if f.anchor == nil {
		return section.Section{}, fmt.Errorf("%w: commit before a placement was chosen", ErrWrongState)
	}
	sec := section.New(f.draft.Name, f.draft.Body)
	if _, err := placement.Insert(f.store, *f.anchor, sec); err != nil {
		if errors.Is(err, template.ErrNotFound) {
			f.anchor = nil
		}
		return section.Section{}, err
	}
	f.added = sec
	f.state = Committed
	return sec.Clone(), nil
}

// Added returns the inserted section once the flow is Committed.
func (f *AddSectionFlow) Added() (section.Section, bool) {
	if f.state != Committed {
		return section.Section{}, false
	}
	return f.added.Clone(), true
}

// Cancel abandons the flow. It is a no-op on a finished flow.
func (f *AddSectionFlow) Cancel() {
	if f.state.Terminal() {
		return
	}
	if f.editor != nil {
		f.editor.Cancel()
	}
	f.state = Cancelled
}
