package section

// Body is the kind-specific payload of a section. The set of implementations
// is closed: StaticText, Paragraph, SectionHeader, BulletedList, ExamList and
// Checklist.
type Body interface {
	// Kind reports the variant the body belongs to.
	Kind() Kind

	clone() Body
	problems() []Problem
}

// StaticText is copied into the note verbatim.
type StaticText struct {
	Text string `json:"text" yaml:"text"`
}

// Paragraph carries instructions for generating a paragraph.
type Paragraph struct {
	Instructions string `json:"instructions" yaml:"instructions"`
}

// SectionHeader has no content beyond the section name.
type SectionHeader struct{}

// BulletedList carries instructions for generating bullets.
type BulletedList struct {
	Instructions string `json:"instructions" yaml:"instructions"`
}

// ExamItem is one finding of an exam list.
type ExamItem struct {
	ID                 string `json:"id" yaml:"id"`
	SubsectionTitle    string `json:"subsectionTitle" yaml:"subsectionTitle"`
	ReportInstructions string `json:"reportInstructions" yaml:"reportInstructions"`
	NormalText         string `json:"normalText,omitempty" yaml:"normalText,omitempty"`
}

// ExamList is a structured list of exam findings.
type ExamList struct {
	Items                []ExamItem         `json:"items" yaml:"items"`
	NotDiscussedBehavior NotDiscussedPolicy `json:"notDiscussedBehavior" yaml:"notDiscussedBehavior"`
	NormalLimitsBehavior NormalLimitsPolicy `json:"normalLimitsBehavior" yaml:"normalLimitsBehavior"`
	HideEmptyItems       bool               `json:"hideEmptyItems" yaml:"hideEmptyItems"`
}

// ChecklistItem is a button that inserts text into the note.
type ChecklistItem struct {
	ID          string `json:"id" yaml:"id"`
	ButtonLabel string `json:"buttonLabel" yaml:"buttonLabel"`
	InsertText  string `json:"insertText" yaml:"insertText"`
}

// Checklist is a list of insert-text buttons.
type Checklist struct {
	Items                []ChecklistItem    `json:"items" yaml:"items"`
	NotDiscussedBehavior NotDiscussedPolicy `json:"notDiscussedBehavior" yaml:"notDiscussedBehavior"`
	HideEmptyItems       bool               `json:"hideEmptyItems" yaml:"hideEmptyItems"`
}

func (StaticText) Kind() Kind    { return KindStaticText }
func (Paragraph) Kind() Kind     { return KindParagraph }
func (SectionHeader) Kind() Kind { return KindSectionHeader }
func (BulletedList) Kind() Kind  { return KindBulletedList }
func (ExamList) Kind() Kind      { return KindExamList }
func (Checklist) Kind() Kind     { return KindChecklist }

func (b StaticText) clone() Body    { return b }
func (b Paragraph) clone() Body     { return b }
func (b SectionHeader) clone() Body { return b }
func (b BulletedList) clone() Body  { return b }

func (b ExamList) clone() Body {
	if b.Items != nil {
		b.Items = append([]ExamItem(nil), b.Items...)
	}
	return b
}

func (b Checklist) clone() Body {
	if b.Items != nil {
		b.Items = append([]ChecklistItem(nil), b.Items...)
	}
	return b
}

// EmptyBody returns the default payload for a freshly chosen kind. List kinds
// start with a single blank item so the editor always has a row to fill in.
func EmptyBody(kind Kind) Body {
	switch kind {
	case KindStaticText:
		return StaticText{}
	case KindParagraph:
		return Paragraph{}
	case KindSectionHeader:
		return SectionHeader{}
	case KindBulletedList:
		return BulletedList{}
	case KindExamList:
		return ExamList{
			Items:                []ExamItem{{ID: NewID()}},
			NotDiscussedBehavior: NotDiscussedLeaveBlank,
			NormalLimitsBehavior: NormalLimitsSummarizeDiscussion,
		}
	case KindChecklist:
		return Checklist{
			Items:                []ChecklistItem{{ID: NewID()}},
			NotDiscussedBehavior: NotDiscussedLeaveBlank,
		}
	default:
		return nil
	}
}

// CloneBody returns a deep copy of b. A nil body clones to nil.
func CloneBody(b Body) Body {
	if b == nil {
		return nil
	}
	return b.clone()
}
