package section

import (
	"fmt"
	"strings"
)

// Problem is a field-level completeness failure. Field uses a path such as
// "items[1].buttonLabel".
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

const msgRequired = "required"

// Validate checks the name and body of a section and returns every problem
// found. An empty result means the section may be committed.
func Validate(name string, body Body) []Problem {
	var problems []Problem
	if strings.TrimSpace(name) == "" {
		problems = append(problems, Problem{Field: "name", Message: msgRequired})
	}
	return append(problems, ValidateBody(body)...)
}

// ValidateBody checks a body against the completeness rules of its kind.
func ValidateBody(body Body) []Problem {
	if body == nil {
		return []Problem{{Field: "body", Message: msgRequired}}
	}
	return body.problems()
}

func (b StaticText) problems() []Problem {
	if blank(b.Text) {
		return []Problem{{Field: "text", Message: msgRequired}}
	}
	return nil
}

func (b Paragraph) problems() []Problem {
	if blank(b.Instructions) {
		return []Problem{{Field: "instructions", Message: msgRequired}}
	}
	return nil
}

func (SectionHeader) problems() []Problem { return nil }

func (b BulletedList) problems() []Problem {
	if blank(b.Instructions) {
		return []Problem{{Field: "instructions", Message: msgRequired}}
	}
	return nil
}

func (b ExamList) problems() []Problem {
	var problems []Problem
	if len(b.Items) == 0 {
		problems = append(problems, Problem{Field: "items", Message: "at least one item is required"})
	}
	for i, item := range b.Items {
		if blank(item.SubsectionTitle) {
			problems = append(problems, Problem{Field: itemField(i, "subsectionTitle"), Message: msgRequired})
		}
		if blank(item.ReportInstructions) {
			problems = append(problems, Problem{Field: itemField(i, "reportInstructions"), Message: msgRequired})
		}
	}
	problems = append(problems, duplicateItemIDs(len(b.Items), func(i int) string { return b.Items[i].ID })...)
	if !b.NotDiscussedBehavior.Valid() {
		problems = append(problems, Problem{Field: "notDiscussedBehavior", Message: fmt.Sprintf("unknown value %q", b.NotDiscussedBehavior)})
	}
	if !b.NormalLimitsBehavior.Valid() {
		problems = append(problems, Problem{Field: "normalLimitsBehavior", Message: fmt.Sprintf("unknown value %q", b.NormalLimitsBehavior)})
	}
	return problems
}

func (b Checklist) problems() []Problem {
	var problems []Problem
	if len(b.Items) == 0 {
		problems = append(problems, Problem{Field: "items", Message: "at least one item is required"})
	}
	for i, item := range b.Items {
		if blank(item.ButtonLabel) {
			problems = append(problems, Problem{Field: itemField(i, "buttonLabel"), Message: msgRequired})
		}
		if blank(item.InsertText) {
			problems = append(problems, Problem{Field: itemField(i, "insertText"), Message: msgRequired})
		}
	}
	problems = append(problems, duplicateItemIDs(len(b.Items), func(i int) string { return b.Items[i].ID })...)
	if !b.NotDiscussedBehavior.Valid() {
		problems = append(problems, Problem{Field: "notDiscussedBehavior", Message: fmt.Sprintf("unknown value %q", b.NotDiscussedBehavior)})
	}
	return problems
}

func duplicateItemIDs(n int, id func(int) string) []Problem {
	var problems []Problem
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			problems = append(problems, Problem{Field: itemField(i, "id"), Message: msgRequired})
			continue
		}
		if _, dup := seen[v]; dup {
			problems = append(problems, Problem{Field: itemField(i, "id"), Message: "duplicate id"})
			continue
		}
		seen[v] = struct{}{}
	}
	return problems
}

func itemField(i int, field string) string {
	return fmt.Sprintf("items[%d].%s", i, field)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
