// Package placement translates a relative insertion point chosen by the user
// into an index for template.Store.InsertAt.
package placement

import (
	"fmt"
	"strings"

	"tableflip.dev/notebuilder/pkg/section"
	"tableflip.dev/notebuilder/pkg/template"
)

// Position names where a new section goes relative to the existing ones.
type Position string

const (
	Start  Position = "start"
	End    Position = "end"
	After  Position = "after"
	Before Position = "before"
)

// Anchor is a placement choice. AnchorID is only used by After and Before.
type Anchor struct {
	Position Position
	AnchorID string
}

// AtStart places a section first.
func AtStart() Anchor { return Anchor{Position: Start} }

// AtEnd places a section last.
func AtEnd() Anchor { return Anchor{Position: End} }

// AfterID places a section directly after the section with the given id.
func AfterID(id string) Anchor { return Anchor{Position: After, AnchorID: id} }

// BeforeID places a section directly before the section with the given id.
func BeforeID(id string) Anchor { return Anchor{Position: Before, AnchorID: id} }

// String renders the anchor in the form accepted by Parse.
func (a Anchor) String() string {
	switch a.Position {
	case After, Before:
		return fmt.Sprintf("%s:%s", a.Position, a.AnchorID)
	default:
		return string(a.Position)
	}
}

// Validate checks that the anchor names a known position and carries an id
// exactly when the position needs one.
func (a Anchor) Validate() error {
	switch a.Position {
	case Start, End:
		if a.AnchorID != "" {
			return fmt.Errorf("placement: %q takes no section id", a.Position)
		}
	case After, Before:
		if strings.TrimSpace(a.AnchorID) == "" {
			return fmt.Errorf("placement: %s requires a section id", a.Position)
		}
	default:
		return fmt.Errorf("placement: unknown position %q", a.Position)
	}
	return nil
}

// Parse reads "start", "end", "after:<id>" or "before:<id>". Empty input
// means end.
func Parse(raw string) (Anchor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AtEnd(), nil
	}
	pos, id, hasID := strings.Cut(raw, ":")
	switch Position(strings.ToLower(strings.TrimSpace(pos))) {
	case Start:
		if hasID {
			return Anchor{}, fmt.Errorf("placement: %q takes no section id", pos)
		}
		return AtStart(), nil
	case End:
		if hasID {
			return Anchor{}, fmt.Errorf("placement: %q takes no section id", pos)
		}
		return AtEnd(), nil
	case After:
		if strings.TrimSpace(id) == "" {
			return Anchor{}, fmt.Errorf("placement: after requires a section id, e.g. after:<id>")
		}
		return AfterID(strings.TrimSpace(id)), nil
	case Before:
		if strings.TrimSpace(id) == "" {
			return Anchor{}, fmt.Errorf("placement: before requires a section id, e.g. before:<id>")
		}
		return BeforeID(strings.TrimSpace(id)), nil
	default:
		return Anchor{}, fmt.Errorf("placement: unknown position %q", pos)
	}
}

// Resolve returns the insertion index for anchor within the ordered ids. The
// result is in [0, len(ids)]. An anchor id that is not present yields a
// *template.NotFoundError.
func Resolve(ids []string, anchor Anchor) (int, error) {
	switch anchor.Position {
	case Start:
		return 0, nil
	case End:
		return len(ids), nil
	case After, Before:
		for i, id := range ids {
			if id != anchor.AnchorID {
				continue
			}
			if anchor.Position == After {
				return i + 1, nil
			}
			return i, nil
		}
		return 0, &template.NotFoundError{ID: anchor.AnchorID, Index: -1}
	default:
		return 0, fmt.Errorf("placement: unknown position %q", anchor.Position)
	}
}

// ResolveIn resolves anchor against the current order of store.
func ResolveIn(store *template.Store, anchor Anchor) (int, error) {
	return Resolve(store.IDs(), anchor)
}

// Insert resolves anchor and inserts sec in one step, so the anchor cannot go
// stale between the two. It returns the index the section landed at.
func Insert(store *template.Store, anchor Anchor, sec section.Section) (int, error) {
	return store.InsertFunc(sec, func(ids []string) (int, error) {
		return Resolve(ids, anchor)
	})
}
