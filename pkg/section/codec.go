package section

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sections are encoded as {id, name, kind, body}; the kind selects how body
// is decoded. Missing ids are generated on decode so hand-written template
// files can leave them out.

type jsonSection struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Kind Kind            `json:"kind"`
	Body json.RawMessage `json:"body,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Body == nil {
		return nil, fmt.Errorf("section: %q has no body", s.ID)
	}
	body, err := json.Marshal(s.Body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonSection{
		ID:   s.ID,
		Name: s.Name,
		Kind: s.Body.Kind(),
		Body: body,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Section) UnmarshalJSON(data []byte) error {
	var w jsonSection
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	body, err := decodeBody(w.Kind, func(v any) error {
		if len(w.Body) == 0 || string(w.Body) == "null" {
			return nil
		}
		return json.Unmarshal(w.Body, v)
	})
	if err != nil {
		return err
	}
	s.ID = w.ID
	s.Name = w.Name
	s.Body = body
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

type yamlSection struct {
	ID   string     `yaml:"id"`
	Name string     `yaml:"name"`
	Kind Kind       `yaml:"kind"`
	Body *yaml.Node `yaml:"body,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (s Section) MarshalYAML() (interface{}, error) {
	if s.Body == nil {
		return nil, fmt.Errorf("section: %q has no body", s.ID)
	}
	return struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
		Kind Kind   `yaml:"kind"`
		Body Body   `yaml:"body,omitempty"`
	}{
		ID:   s.ID,
		Name: s.Name,
		Kind: s.Body.Kind(),
		Body: s.Body,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Section) UnmarshalYAML(value *yaml.Node) error {
	var w yamlSection
	if err := value.Decode(&w); err != nil {
		return err
	}
	body, err := decodeBody(w.Kind, func(v any) error {
		if w.Body == nil {
			return nil
		}
		return w.Body.Decode(v)
	})
	if err != nil {
		return err
	}
	s.ID = w.ID
	s.Name = w.Name
	s.Body = body
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

func decodeBody(kind Kind, decode func(any) error) (Body, error) {
	switch kind {
	case KindStaticText:
		var b StaticText
		if err := decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case KindParagraph:
		var b Paragraph
		if err := decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case KindSectionHeader:
		return SectionHeader{}, nil
	case KindBulletedList:
		var b BulletedList
		if err := decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case KindExamList:
		var b ExamList
		if err := decode(&b); err != nil {
			return nil, err
		}
		if b.NotDiscussedBehavior == "" {
			b.NotDiscussedBehavior = NotDiscussedLeaveBlank
		}
		if b.NormalLimitsBehavior == "" {
			b.NormalLimitsBehavior = NormalLimitsSummarizeDiscussion
		}
		for i := range b.Items {
			if b.Items[i].ID == "" {
				b.Items[i].ID = NewID()
			}
		}
		return b, nil
	case KindChecklist:
		var b Checklist
		if err := decode(&b); err != nil {
			return nil, err
		}
		if b.NotDiscussedBehavior == "" {
			b.NotDiscussedBehavior = NotDiscussedLeaveBlank
		}
		for i := range b.Items {
			if b.Items[i].ID == "" {
				b.Items[i].ID = NewID()
			}
		}
		return b, nil
	case "":
		return nil, fmt.Errorf("section: kind is required")
	default:
		return nil, fmt.Errorf("section: unknown kind %q", kind)
	}
}
