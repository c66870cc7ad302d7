package template

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/notebuilder/pkg/section"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("template: section is incomplete")
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("template: section not found")
	// ErrKindMismatch matches any *KindMismatchError.
	ErrKindMismatch = errors.New("template: section kind mismatch")
)

// ValidationError reports a section that fails its kind's completeness rules.
type ValidationError struct {
	ID       string
	Problems []section.Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.ID, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an id or index that is not (or no longer) present.
type NotFoundError struct {
	ID    string
	Index int
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %q", ErrNotFound, e.ID)
	}
	return fmt.Sprintf("%s: index %d", ErrNotFound, e.Index)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// KindMismatchError reports an update whose body belongs to another kind.
type KindMismatchError struct {
	ID   string
	Want section.Kind
	Got  section.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("%s: %q is %s, got %s body", ErrKindMismatch, e.ID, e.Want, e.Got)
}

// Is lets errors.Is(err, ErrKindMismatch) match.
func (e *KindMismatchError) Is(target error) bool {
	return target == ErrKindMismatch
}

func notFoundID(id string) error {
	return &NotFoundError{ID: id, Index: -1}
}
