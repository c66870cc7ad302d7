// Package section defines the building blocks of a note template: the six
// section kinds, their configuration payloads and the completeness rules a
// section must satisfy before it can join a template.
package section

import (
	"fmt"
	"strings"
)

// Kind identifies which variant a section is. It never changes after the
// section is created.
type Kind string

const (
	// KindStaticText is verbatim text copied into the note.
	KindStaticText Kind = "static_text"
	// KindParagraph is a generated paragraph driven by free-text instructions.
	KindParagraph Kind = "paragraph"
	// KindSectionHeader is a title with no body.
	KindSectionHeader Kind = "section_header"
	// KindBulletedList is a generated list of bullets.
	KindBulletedList Kind = "bulleted_list"
	// KindExamList is a list of exam findings with normal-limit handling.
	KindExamList Kind = "exam_list"
	// KindChecklist is a list of buttons that insert canned text.
	KindChecklist Kind = "checklist"
)

// AllKinds returns the supported kinds in display order.
func AllKinds() []Kind {
	return []Kind{
		KindStaticText,
		KindParagraph,
		KindSectionHeader,
		KindBulletedList,
		KindExamList,
		KindChecklist,
	}
}

// ParseKind converts user input such as "exam-list" or "Checklist" to a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	for _, candidate := range AllKinds() {
		if candidate == k {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("section: unknown kind %q", raw)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, candidate := range AllKinds() {
		if candidate == k {
			return true
		}
	}
	return false
}

// Label returns a human-friendly name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindStaticText:
		return "Static text"
	case KindParagraph:
		return "Paragraph"
	case KindSectionHeader:
		return "Section header"
	case KindBulletedList:
		return "Bulleted list"
	case KindExamList:
		return "Exam list"
	case KindChecklist:
		return "Checklist"
	default:
		return string(k)
	}
}

// Description explains what a section of this kind produces.
func (k Kind) Description() string {
	switch k {
	case KindStaticText:
		return "Text inserted exactly as written"
	case KindParagraph:
		return "A paragraph generated from your instructions"
	case KindSectionHeader:
		return "A heading that groups the sections below it"
	case KindBulletedList:
		return "A bulleted list generated from your instructions"
	case KindExamList:
		return "Exam findings with normal-limit defaults"
	case KindChecklist:
		return "Buttons that insert predefined text"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
