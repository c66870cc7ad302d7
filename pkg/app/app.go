package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tableflip.dev/notebuilder/pkg/store"
	"tableflip.dev/notebuilder/pkg/template"
)

// Service provides high-level operations on stored templates so the CLI and
// the interactive prompts share one code path.
type Service struct {
	Persistence store.Persistence
	// Logger receives service events; nil discards them.
	Logger *slog.Logger
	// CopySuffix is appended to duplicated section names; empty means
	// template.DefaultCopySuffix.
	CopySuffix string
}

var (
	ErrNoPersistence  = errors.New("app: no persistence configured")
	ErrTemplateExists = errors.New("app: template already exists")
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return discard
	}
	return s.Logger
}

func (s *Service) ready() error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return nil
}

// Templates lists stored templates sorted by name.
func (s *Service) Templates(ctx context.Context) ([]store.Meta, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.List(ctx), nil
}

// Template loads one stored template.
func (s *Service) Template(ctx context.Context, name string) (*store.Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Load(strings.TrimSpace(name))
}

// Create stores a new, empty template.
func (s *Service) Create(ctx context.Context, name string) (*store.Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("app: template name required")
	}
	if s.Persistence.Exists(name) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateExists, name)
	}
	doc := &store.Document{Name: name}
	if err := s.Persistence.Save(doc); err != nil {
		return nil, err
	}
	s.logger().Info("template created", "template", name)
	return doc, nil
}

// Remove deletes a stored template.
func (s *Service) Remove(ctx context.Context, name string) error {
	if err := s.ready(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if err := s.Persistence.Delete(name); err != nil {
		return err
	}
	s.logger().Info("template deleted", "template", name)
	return nil
}

// Open loads a template into a section store. Every change made through the
// returned session is written back before the mutating call returns.
func (s *Service) Open(ctx context.Context, name string) (*Session, error) {
	doc, err := s.Template(ctx, name)
	if err != nil {
		return nil, err
	}
	st, err := template.New(doc.Sections, template.WithCopySuffix(s.CopySuffix))
	if err != nil {
		return nil, fmt.Errorf("app: open %q: %w", doc.Name, err)
	}
	sess := &Session{name: doc.Name, store: st, persistence: s.Persistence, log: s.logger().With("template", doc.Name)}
	sess.cancel = st.Subscribe(sess.autosave)
	sess.log.Debug("template opened", "sections", st.Len())
	return sess, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Watch(ctx)
}
