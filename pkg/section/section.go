package section

import (
	"strings"

	"github.com/google/uuid"
)

// Section is one block of a note template.
type Section struct {
	ID   string
	Name string
	Body Body
}

// New creates a section with a freshly generated id.
func New(name string, body Body) Section {
	return Section{
		ID:   NewID(),
		Name: strings.TrimSpace(name),
		Body: CloneBody(body),
	}
}

// NewID returns an opaque identifier for a section or list item.
func NewID() string {
	return uuid.NewString()
}

// Kind reports the kind of the section's body.
func (s Section) Kind() Kind {
	if s.Body == nil {
		return ""
	}
	return s.Body.Kind()
}

// Clone returns a deep copy of s.
func (s Section) Clone() Section {
	s.Body = CloneBody(s.Body)
	return s
}

// Clone deep-copies a list of sections.
func Clone(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i := range sections {
		out[i] = sections[i].Clone()
	}
	return out
}

// Summary returns a one line description of the body, used by list views.
func (s Section) Summary() string {
	switch b := s.Body.(type) {
	case StaticText:
		return firstLine(b.Text)
	case Paragraph:
		return firstLine(b.Instructions)
	case BulletedList:
		return firstLine(b.Instructions)
	case SectionHeader:
		return ""
	case ExamList:
		titles := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			titles = append(titles, item.SubsectionTitle)
		}
		return strings.Join(titles, ", ")
	case Checklist:
		labels := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			labels = append(labels, item.ButtonLabel)
		}
		return strings.Join(labels, ", ")
	default:
		return ""
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx]) + " …"
	}
	return s
}
