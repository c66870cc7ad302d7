package interactive

import (
	"fmt"

	"tableflip.dev/notebuilder/pkg/placement"
	"tableflip.dev/notebuilder/pkg/section"
)

type kindChoice struct {
	Kind        section.Kind
	Label       string
	Description string
}

func kindChoices() []kindChoice {
	kinds := section.AllKinds()
	out := make([]kindChoice, len(kinds))
	for i, k := range kinds {
		out[i] = kindChoice{Kind: k, Label: k.Label(), Description: k.Description()}
	}
	return out
}

type placementChoice struct {
	Label  string
	Anchor placement.Anchor
}

// placementChoices offers start, end, and a slot after every section.
func placementChoices(sections []section.Section) []placementChoice {
	out := make([]placementChoice, 0, len(sections)+2)
	out = append(out, placementChoice{Label: "At the start", Anchor: placement.AtStart()})
	for i, s := range sections {
		out = append(out, placementChoice{
			Label:  fmt.Sprintf("After %d. %s", i, s.Name),
			Anchor: placement.AfterID(s.ID),
		})
	}
	return append(out, placementChoice{Label: "At the end", Anchor: placement.AtEnd()})
}

type policyChoice struct {
	Value string
	Label string
}

func notDiscussedChoices() []policyChoice {
	var out []policyChoice
	for _, p := range section.NotDiscussedPolicies() {
		out = append(out, policyChoice{Value: string(p), Label: policyLabel(string(p))})
	}
	return out
}

func normalLimitsChoices() []policyChoice {
	var out []policyChoice
	for _, p := range section.NormalLimitsPolicies() {
		out = append(out, policyChoice{Value: string(p), Label: policyLabel(string(p))})
	}
	return out
}

func policyLabel(v string) string {
	switch v {
	case string(section.NotDiscussedLeaveBlank):
		return "Leave the item blank"
	case string(section.NotDiscussedDefaultToNormal):
		return "Fill in the normal text"
	case string(section.NotDiscussedAlertProvider):
		return "Alert the provider"
	case string(section.NormalLimitsSummarizeDiscussion):
		return "Summarize what was discussed"
	case string(section.NormalLimitsUseSpecifiedText):
		return "Use the item's normal text"
	case string(section.NormalLimitsHighlightAbnormal):
		return "Only highlight abnormal findings"
	default:
		return v
	}
}
