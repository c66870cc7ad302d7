package editor

import "tableflip.dev/notebuilder/pkg/section"

// ChecklistEditor edits a checklist section.
type ChecklistEditor struct {
	state
	items        itemList[section.ChecklistItem]
	notDiscussed section.NotDiscussedPolicy
	hideEmpty    bool
}

var _ Editor = (*ChecklistEditor)(nil)

// NewChecklistEditor returns an editor seeded from body. An empty item list
// gets one blank item.
func NewChecklistEditor(name string, body section.Checklist) *ChecklistEditor {
	e := &ChecklistEditor{
		state:        state{name: name},
		items:        itemList[section.ChecklistItem]{items: append([]section.ChecklistItem(nil), body.Items...)},
		notDiscussed: body.NotDiscussedBehavior,
		hideEmpty:    body.HideEmptyItems,
	}
	if e.notDiscussed == "" {
		e.notDiscussed = section.NotDiscussedLeaveBlank
	}
	if e.items.len() == 0 {
		e.items.add(section.ChecklistItem{ID: section.NewID()})
	}
	return e
}

// Kind implements Editor.
func (e *ChecklistEditor) Kind() section.Kind { return section.KindChecklist }

// Items returns a copy of the current items.
func (e *ChecklistEditor) Items() []section.ChecklistItem { return e.items.snapshot() }

// Item returns the item at i.
func (e *ChecklistEditor) Item(i int) (section.ChecklistItem, bool) { return e.items.get(i) }

// AddItem appends item, assigning an id when it has none, and returns its
// index. It returns -1 once the editor is closed.
func (e *ChecklistEditor) AddItem(item section.ChecklistItem) int {
	if e.closed {
		return -1
	}
	if item.ID == "" {
		item.ID = section.NewID()
	}
	return e.items.add(item)
}

// SetItem replaces the fields of the item at i, keeping its id.
func (e *ChecklistEditor) SetItem(i int, item section.ChecklistItem) bool {
	if e.closed {
		return false
	}
	current, ok := e.items.get(i)
	if !ok {
		return false
	}
	item.ID = current.ID
	return e.items.set(i, item)
}

// CanRemoveItem reports whether an item may be removed; the last one may not.
func (e *ChecklistEditor) CanRemoveItem() bool { return !e.closed && e.items.canRemove() }

// RemoveItem removes the item at i. It refuses to remove the last item.
func (e *ChecklistEditor) RemoveItem(i int) bool {
	if e.closed {
		return false
	}
	return e.items.remove(i)
}

// MoveItemUp swaps the item at i with the one before it.
func (e *ChecklistEditor) MoveItemUp(i int) bool {
	if e.closed {
		return false
	}
	return e.items.moveUp(i)
}

// MoveItemDown swaps the item at i with the one after it.
func (e *ChecklistEditor) MoveItemDown(i int) bool {
	if e.closed {
		return false
	}
	return e.items.moveDown(i)
}

// SetNotDiscussedBehavior sets the policy for buttons never used.
func (e *ChecklistEditor) SetNotDiscussedBehavior(p section.NotDiscussedPolicy) {
	if e.closed {
		return
	}
	e.notDiscussed = p
}

// SetHideEmptyItems toggles hiding unused items.
func (e *ChecklistEditor) SetHideEmptyItems(hide bool) {
	if e.closed {
		return
	}
	e.hideEmpty = hide
}

// Body implements Editor.
func (e *ChecklistEditor) Body() section.Body {
	return section.Checklist{
		Items:                e.items.snapshot(),
		NotDiscussedBehavior: e.notDiscussed,
		HideEmptyItems:       e.hideEmpty,
	}
}

// Problems implements Editor.
func (e *ChecklistEditor) Problems() []section.Problem { return e.problems(e.Body()) }

// CanCommit implements Editor.
func (e *ChecklistEditor) CanCommit() bool { return e.canCommit(e.Body()) }

// Commit implements Editor.
func (e *ChecklistEditor) Commit() (Draft, error) { return e.commit(e.Body()) }
