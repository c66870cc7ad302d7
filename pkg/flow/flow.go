// Package flow walks a user through adding or editing one section. A flow is
// an explicit object owned by the caller; it never touches the store until
// its final commit.
package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongState is returned when a step is taken out of order.
	ErrWrongState = errors.New("flow: step not allowed in current state")
	// ErrClosed is returned by every step once the flow committed or was
	// cancelled.
	ErrClosed = errors.New("flow: flow is finished")
)

// State is the position of a flow in its state machine.
type State int

const (
	ChoosingKind State = iota
	ConfiguringBody
	ChoosingPlacement
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case ChoosingKind:
		return "ChoosingKind"
	case ConfiguringBody:
		return "ConfiguringBody"
	case ChoosingPlacement:
		return "ChoosingPlacement"
	case Committed:
		return "Committed"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further step is possible.
func (s State) Terminal() bool {
	return s == Committed || s == Cancelled
}

func expect(step string, got State, want ...State) error {
	if got.Terminal() {
		return fmt.Errorf("%w: %s after %s", ErrClosed, step, got)
	}
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrWrongState, step, got)
}
