package section

import (
	"fmt"
	"strings"
)

// NotDiscussedPolicy decides what happens to an item the visit never touched.
type NotDiscussedPolicy string

const (
	NotDiscussedLeaveBlank      NotDiscussedPolicy = "leave_blank"
	NotDiscussedDefaultToNormal NotDiscussedPolicy = "default_to_normal"
	NotDiscussedAlertProvider   NotDiscussedPolicy = "alert_provider"
)

// NotDiscussedPolicies returns every NotDiscussedPolicy.
func NotDiscussedPolicies() []NotDiscussedPolicy {
	return []NotDiscussedPolicy{
		NotDiscussedLeaveBlank,
		NotDiscussedDefaultToNormal,
		NotDiscussedAlertProvider,
	}
}

// ParseNotDiscussed parses a policy name. Empty input yields the default.
func ParseNotDiscussed(raw string) (NotDiscussedPolicy, error) {
	p := NotDiscussedPolicy(normalizeEnum(raw))
	if p == "" {
		return NotDiscussedLeaveBlank, nil
	}
	for _, candidate := range NotDiscussedPolicies() {
		if candidate == p {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("section: unknown not-discussed behavior %q", raw)
}

// Valid reports whether p is a known policy.
func (p NotDiscussedPolicy) Valid() bool {
	for _, candidate := range NotDiscussedPolicies() {
		if candidate == p {
			return true
		}
	}
	return false
}

// NormalLimitsPolicy decides how findings within normal limits are written.
type NormalLimitsPolicy string

const (
	NormalLimitsSummarizeDiscussion NormalLimitsPolicy = "summarize_discussion"
	NormalLimitsUseSpecifiedText    NormalLimitsPolicy = "use_specified_text"
	NormalLimitsHighlightAbnormal   NormalLimitsPolicy = "highlight_abnormal"
)

// NormalLimitsPolicies returns every NormalLimitsPolicy.
func NormalLimitsPolicies() []NormalLimitsPolicy {
	return []NormalLimitsPolicy{
		NormalLimitsSummarizeDiscussion,
		NormalLimitsUseSpecifiedText,
		NormalLimitsHighlightAbnormal,
	}
}

// ParseNormalLimits parses a policy name. Empty input yields the default.
func ParseNormalLimits(raw string) (NormalLimitsPolicy, error) {
	p := NormalLimitsPolicy(normalizeEnum(raw))
	if p == "" {
		return NormalLimitsSummarizeDiscussion, nil
	}
	for _, candidate := range NormalLimitsPolicies() {
		if candidate == p {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("section: unknown normal-limits behavior %q", raw)
}

// Valid reports whether p is a known policy.
func (p NormalLimitsPolicy) Valid() bool {
	for _, candidate := range NormalLimitsPolicies() {
		if candidate == p {
			return true
		}
	}
	return false
}

func normalizeEnum(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
}
