package editor

import (
	"fmt"

	"tableflip.dev/notebuilder/pkg/section"
)

// TextEditor edits the single-field kinds: static text, paragraph and
// bulleted list.
type TextEditor struct {
	state
	kind section.Kind
	text string
}

var _ Editor = (*TextEditor)(nil)

// NewTextEditor returns an editor for a static_text, paragraph or
// bulleted_list section.
func NewTextEditor(kind section.Kind, name, text string) (*TextEditor, error) {
	switch kind {
	case section.KindStaticText, section.KindParagraph, section.KindBulletedList:
	default:
		return nil, fmt.Errorf("editor: %s is not a text kind", kind)
	}
	return &TextEditor{state: state{name: name}, kind: kind, text: text}, nil
}

// Kind implements Editor.
func (e *TextEditor) Kind() section.Kind { return e.kind }

// Field names the body field being edited: "text" or "instructions".
func (e *TextEditor) Field() string {
	if e.kind == section.KindStaticText {
		return "text"
	}
	return "instructions"
}

// Text returns the current field value.
func (e *TextEditor) Text() string { return e.text }

// SetText replaces the field value.
func (e *TextEditor) SetText(text string) {
	if e.closed {
		return
	}
	e.text = text
}

// Body implements Editor.
func (e *TextEditor) Body() section.Body {
	switch e.kind {
	case section.KindStaticText:
		return section.StaticText{Text: e.text}
	case section.KindBulletedList:
		return section.BulletedList{Instructions: e.text}
	default:
		return section.Paragraph{Instructions: e.text}
	}
}

// Problems implements Editor.
func (e *TextEditor) Problems() []section.Problem { return e.problems(e.Body()) }

// CanCommit implements Editor.
func (e *TextEditor) CanCommit() bool { return e.canCommit(e.Body()) }

// Commit implements Editor.
func (e *TextEditor) Commit() (Draft, error) { return e.commit(e.Body()) }

// HeaderEditor edits a section header, which has only a name.
type HeaderEditor struct {
	state
}

var _ Editor = (*HeaderEditor)(nil)

// NewHeaderEditor returns an editor for a section_header section.
func NewHeaderEditor(name string) *HeaderEditor {
	return &HeaderEditor{state: state{name: name}}
}

// Kind implements Editor.
func (e *HeaderEditor) Kind() section.Kind { return section.KindSectionHeader }

// Body implements Editor.
func (e *HeaderEditor) Body() section.Body { return section.SectionHeader{} }

// Problems implements Editor.
func (e *HeaderEditor) Problems() []section.Problem { return e.problems(e.Body()) }

// CanCommit implements Editor.
func (e *HeaderEditor) CanCommit() bool { return e.canCommit(e.Body()) }

// Commit implements Editor.
func (e *HeaderEditor) Commit() (Draft, error) { return e.commit(e.Body()) }
