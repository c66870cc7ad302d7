package editor

import "tableflip.dev/notebuilder/pkg/section"

// ExamListEditor edits an exam_list section.
type ExamListEditor struct {
	state
	items        itemList[section.ExamItem]
	notDiscussed section.NotDiscussedPolicy
	normalLimits section.NormalLimitsPolicy
	hideEmpty    bool
}

var _ Editor = (*ExamListEditor)(nil)

// NewExamListEditor returns an editor seeded from body. Missing policies take
// their defaults and an empty item list gets one blank item.
func NewExamListEditor(name string, body section.ExamList) *ExamListEditor {
	e := &ExamListEditor{
		state:        state{name: name},
		items:        itemList[section.ExamItem]{items: append([]section.ExamItem(nil), body.Items...)},
		notDiscussed: body.NotDiscussedBehavior,
		normalLimits: body.NormalLimitsBehavior,
		hideEmpty:    body.HideEmptyItems,
	}
	if e.notDiscussed == "" {
		e.notDiscussed = section.NotDiscussedLeaveBlank
	}
	if e.normalLimits == "" {
		e.normalLimits = section.NormalLimitsSummarizeDiscussion
	}
	if e.items.len() == 0 {
		e.items.add(section.ExamItem{ID: section.NewID()})
	}
	return e
}

// Kind implements Editor.
func (e *ExamListEditor) Kind() section.Kind { return section.KindExamList }

// Items returns a copy of the current items.
func (e *ExamListEditor) Items() []section.ExamItem { return e.items.snapshot() }

// Item returns the item at i.
func (e *ExamListEditor) Item(i int) (section.ExamItem, bool) { return e.items.get(i) }

// AddItem appends item, assigning an id when it has none, and returns its
// index. It returns -1 once the editor is closed.
func (e *ExamListEditor) AddItem(item section.ExamItem) int {
	if e.closed {
		return -1
	}
	if item.ID == "" {
		item.ID = section.NewID()
	}
	return e.items.add(item)
}

// SetItem replaces the fields of the item at i, keeping its id.
func (e *ExamListEditor) SetItem(i int, item section.ExamItem) bool {
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
func (e *ExamListEditor) CanRemoveItem() bool { return !e.closed && e.items.canRemove() }

// RemoveItem removes the item at i. It refuses to remove the last item.
func (e *ExamListEditor) RemoveItem(i int) bool {
	if e.closed {
		return false
	}
	return e.items.remove(i)
}

// MoveItemUp swaps the item at i with the one before it.
func (e *ExamListEditor) MoveItemUp(i int) bool {
	if e.closed {
		return false
	}
	return e.items.moveUp(i)
}

// MoveItemDown swaps the item at i with the one after it.
func (e *ExamListEditor) MoveItemDown(i int) bool {
	if e.closed {
		return false
	}
	return e.items.moveDown(i)
}

// SetNotDiscussedBehavior sets the policy for findings never discussed.
func (e *ExamListEditor) SetNotDiscussedBehavior(p section.NotDiscussedPolicy) {
	if e.closed {
		return
	}
	e.notDiscussed = p
}

// SetNormalLimitsBehavior sets the policy for findings within normal limits.
func (e *ExamListEditor) SetNormalLimitsBehavior(p section.NormalLimitsPolicy) {
	if e.closed {
		return
	}
	e.normalLimits = p
}

// SetHideEmptyItems toggles hiding items that produced no content.
func (e *ExamListEditor) SetHideEmptyItems(hide bool) {
	if e.closed {
		return
	}
	e.hideEmpty = hide
}

// Body implements Editor.
func (e *ExamListEditor) Body() section.Body {
	return section.ExamList{
		Items:                e.items.snapshot(),
		NotDiscussedBehavior: e.notDiscussed,
		NormalLimitsBehavior: e.normalLimits,
		HideEmptyItems:       e.hideEmpty,
	}
}

// Problems implements Editor.
func (e *ExamListEditor) Problems() []section.Problem { return e.problems(e.Body()) }

// CanCommit implements Editor.
func (e *ExamListEditor) CanCommit() bool { return e.canCommit(e.Body()) }

// Commit implements Editor.
func (e *ExamListEditor) Commit() (Draft, error) { return e.commit(e.Body()) }
