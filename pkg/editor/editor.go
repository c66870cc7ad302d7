// Package editor holds the per-kind configuration editors used to build or
// change a section. An editor keeps the in-progress values, reports
// field-level problems, and only lets a complete section be committed.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/notebuilder/pkg/section"
)

var (
	// ErrIncomplete is returned by Commit while the section has problems.
	ErrIncomplete = errors.New("editor: section is incomplete")
	// ErrClosed is returned by Commit after the editor committed or cancelled.
	ErrClosed = errors.New("editor: editor is closed")
)

// Draft is the result of a successful commit.
type Draft struct {
	Name string
	Body section.Body
}

// Editor is the common surface of all section editors.
type Editor interface {
	Kind() section.Kind
	Name() string
	SetName(name string)
	// Body returns the current, possibly incomplete, body.
	Body() section.Body
	// Problems lists every completeness failure of the current values.
	Problems() []section.Problem
	// CanCommit reports whether Commit would succeed.
	CanCommit() bool
	// Commit closes the editor and returns the finished section values.
	Commit() (Draft, error)
	// Cancel closes the editor and discards all edits.
	Cancel()
	Closed() bool
}

// New returns an empty editor for kind.
func New(kind section.Kind) (Editor, error) {
	switch kind {
	case section.KindStaticText, section.KindParagraph, section.KindBulletedList:
		return NewTextEditor(kind, "", "")
	case section.KindSectionHeader:
		return NewHeaderEditor(""), nil
	case section.KindExamList:
		return NewExamListEditor("", section.ExamList{}), nil
	case section.KindChecklist:
		return NewChecklistEditor("", section.Checklist{}), nil
	default:
		return nil, fmt.Errorf("editor: unknown kind %q", kind)
	}
}

// ForSection returns an editor pre-filled with the values of sec.
func ForSection(sec section.Section) (Editor, error) {
	switch b := sec.Body.(type) {
	case section.StaticText:
		return NewTextEditor(section.KindStaticText, sec.Name, b.Text)
	case section.Paragraph:
		return NewTextEditor(section.KindParagraph, sec.Name, b.Instructions)
	case section.BulletedList:
		return NewTextEditor(section.KindBulletedList, sec.Name, b.Instructions)
	case section.SectionHeader:
		return NewHeaderEditor(sec.Name), nil
	case section.ExamList:
		return NewExamListEditor(sec.Name, b), nil
	case section.Checklist:
		return NewChecklistEditor(sec.Name, b), nil
	default:
		return nil, fmt.Errorf("editor: section %q has no editable body", sec.ID)
	}
}

// state is shared by every editor: the section name and whether the editor
// is still open.
type state struct {
	name   string
	closed bool
}

func (s *state) Name() string { return s.name }

func (s *state) SetName(name string) {
	if s.closed {
		return
	}
	s.name = name
}

func (s *state) Closed() bool { return s.closed }

func (s *state) Cancel() { s.closed = true }

func (s *state) problems(body section.Body) []section.Problem {
	return section.Validate(s.name, body)
}

func (s *state) canCommit(body section.Body) bool {
	return !s.closed && len(s.problems(body)) == 0
}

func (s *state) commit(body section.Body) (Draft, error) {
	if s.closed {
		return Draft{}, ErrClosed
	}
	if len(s.problems(body)) > 0 {
		return Draft{}, ErrIncomplete
	}
	s.closed = true
	return Draft{Name: strings.TrimSpace(s.name), Body: section.CloneBody(body)}, nil
}
