// Package template holds the ordered sections of one note template and applies
// every mutation atomically, notifying observers with a fresh snapshot after
// each successful change.
package template

import (
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/notebuilder/pkg/section"
)

// DefaultCopySuffix is appended to the name of a duplicated section.
const DefaultCopySuffix = " (copy)"

// Observer receives the full ordered collection after a mutation. The slice
// is owned by the observer.
type Observer func(sections []section.Section)

// Option customises a Store.
type Option func(*Store)

// WithIDFunc overrides id generation for new sections, mainly for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithCopySuffix overrides the suffix Duplicate appends to names.
func WithCopySuffix(suffix string) Option {
	return func(s *Store) {
		if suffix != "" {
			s.copySuffix = suffix
		}
	}
}

// Store is the canonical ordered collection of sections for one template.
//
// Observers run after the store lock is released, so they may read the
// store. Deliveries are serialized and a snapshot older than one already
// delivered is skipped, so observers never go back in time when mutations
// race. An observer must not mutate the store synchronously.
type Store struct {
	mu       sync.Mutex
	sections []section.Section
	version  uint64
	// retired holds ids that were removed; they are never handed out again.
	retired map[string]struct{}

	observers    []subscription
	nextObserver int

	notifyMu  sync.Mutex
	delivered uint64

	newID      func() string
	copySuffix string
}

type subscription struct {
	id int
	fn Observer
}

// New seeds a store with an ordered list of sections. Every section must be
// complete and ids must be unique.
func New(seed []section.Section, opts ...Option) (*Store, error) {
	s := &Store{
		retired:    make(map[string]struct{}),
		newID:      section.NewID,
		copySuffix: DefaultCopySuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	seen := make(map[string]struct{}, len(seed))
	sections := make([]section.Section, 0, len(seed))
	for i, sec := range seed {
		if err := checkSection(sec); err != nil {
			return nil, fmt.Errorf("template: seed section %d: %w", i, err)
		}
		if _, dup := seen[sec.ID]; dup {
			return nil, fmt.Errorf("template: seed section %d: duplicate id %q", i, sec.ID)
		}
		seen[sec.ID] = struct{}{}
		sections = append(sections, sec.Clone())
	}
	s.sections = sections
	return s, nil
}

// Len returns the number of sections.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections)
}

// Snapshot returns a deep copy of the ordered collection.
func (s *Store) Snapshot() []section.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return section.Clone(s.sections)
}

// IDs returns the section ids in order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.sections))
	for i, sec := range s.sections {
		ids[i] = sec.ID
	}
	return ids
}

// Get returns a copy of the section with the given id.
func (s *Store) Get(id string) (section.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return section.Section{}, notFoundID(id)
	}
	return s.sections[idx].Clone(), nil
}

// Index returns the position of the section with the given id.
func (s *Store) Index(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return -1, notFoundID(id)
	}
	return idx, nil
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are called synchronously, in registration order, after each
// successful mutation.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Reorder moves the section at src to dst, shifting the sections in between
// by one. Both indices must be in [0, Len()). Moving a section onto itself is
// a no-op and notifies nobody.
func (s *Store) Reorder(src, dst int) {
	s.mu.Lock()
	n := len(s.sections)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		s.mu.Unlock()
		panic(fmt.Sprintf("template: reorder %d -> %d out of range [0, %d)", src, dst, n))
	}
	if src == dst {
		s.mu.Unlock()
		return
	}
	moved := s.sections[src]
	next := make([]section.Section, 0, n)
	next = append(next, s.sections[:src]...)
	next = append(next, s.sections[src+1:]...)
	next = append(next[:dst], append([]section.Section{moved}, next[dst:]...)...)
	s.sections = next
	s.commitLocked()
}

// InsertAt inserts sec at index, shifting later sections right. index must
// be in [0, Len()]. The section must be complete and carry an id that has
// never been used in this store.
func (s *Store) InsertAt(index int, sec section.Section) error {
	s.mu.Lock()
	n := len(s.sections)
	if index < 0 || index > n {
		s.mu.Unlock()
		panic(fmt.Sprintf("template: insert at %d out of range [0, %d]", index, n))
	}
	if err := checkSection(sec); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.checkFreshIDLocked(sec.ID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.sections = insert(s.sections, index, sec.Clone())
	s.commitLocked()
	return nil
}

// InsertFunc inserts sec at the index returned by locate, which is called
// with the current ids under the store lock. An error from locate is
// returned unchanged and leaves the store untouched.
func (s *Store) InsertFunc(sec section.Section, locate func(ids []string) (int, error)) (int, error) {
	s.mu.Lock()
	ids := make([]string, len(s.sections))
	for i, cur := range s.sections {
		ids[i] = cur.ID
	}
	index, err := locate(ids)
	if err != nil {
		s.mu.Unlock()
		return -1, err
	}
	if index < 0 || index > len(s.sections) {
		s.mu.Unlock()
		panic(fmt.Sprintf("template: insert at %d out of range [0, %d]", index, len(s.sections)))
	}
	if err := checkSection(sec); err != nil {
		s.mu.Unlock()
		return -1, err
	}
	if err := s.checkFreshIDLocked(sec.ID); err != nil {
		s.mu.Unlock()
		return -1, err
	}
	s.sections = insert(s.sections, index, sec.Clone())
	s.commitLocked()
	return index, nil
}

// DeleteAt removes the section at index and returns it.
func (s *Store) DeleteAt(index int) (section.Section, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.sections) {
		s.mu.Unlock()
		return section.Section{}, &NotFoundError{Index: index}
	}
	return s.removeLocked(index), nil
}

// DeleteByID removes the section with the given id and returns it. Deleting
// the same id twice fails the second time.
func (s *Store) DeleteByID(id string) (section.Section, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return section.Section{}, notFoundID(id)
	}
	return s.removeLocked(idx), nil
}

// Duplicate copies the section with the given id, gives the copy a new id and
// a suffixed name, and inserts it directly after the source.
func (s *Store) Duplicate(id string) (section.Section, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return section.Section{}, notFoundID(id)
	}
	dup := s.sections[idx].Clone()
	dup.ID = s.freshIDLocked()
	dup.Name = dup.Name + s.copySuffix
	s.sections = insert(s.sections, idx+1, dup)
	s.commitLocked()
	return dup.Clone(), nil
}

// UpdateBody replaces the body of a section. The new body must have the same
// kind as the section and be complete.
func (s *Store) UpdateBody(id string, body section.Body) error {
	return s.update(id, nil, body, false)
}

// UpdateSection replaces the name and body of a section in one step.
func (s *Store) UpdateSection(id, name string, body section.Body) error {
	return s.update(id, &name, body, false)
}

// Rename changes only the name of a section.
func (s *Store) Rename(id, name string) error {
	return s.update(id, &name, nil, true)
}

func (s *Store) update(id string, name *string, body section.Body, keepBody bool) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return notFoundID(id)
	}
	current := s.sections[idx]
	if keepBody {
		body = current.Body
	}
	if body == nil {
		s.mu.Unlock()
		return &ValidationError{ID: id, Problems: section.ValidateBody(nil)}
	}
	if body.Kind() != current.Kind() {
		s.mu.Unlock()
		return &KindMismatchError{ID: id, Want: current.Kind(), Got: body.Kind()}
	}
	next := current
	if name != nil {
		next.Name = strings.TrimSpace(*name)
	}
	next.Body = section.CloneBody(body)
	if problems := section.Validate(next.Name, next.Body); len(problems) > 0 {
		s.mu.Unlock()
		return &ValidationError{ID: id, Problems: problems}
	}
	s.sections = replace(s.sections, idx, next)
	s.commitLocked()
	return nil
}

func (s *Store) removeLocked(idx int) section.Section {
	removed := s.sections[idx]
	next := make([]section.Section, 0, len(s.sections)-1)
	next = append(next, s.sections[:idx]...)
	next = append(next, s.sections[idx+1:]...)
	s.sections = next
	s.retired[removed.ID] = struct{}{}
	s.commitLocked()
	return removed.Clone()
}

// commitLocked releases the lock and notifies observers. Callers must hold
// s.mu and must not touch the store state afterwards.
func (s *Store) commitLocked() {
	s.version++
	version := s.version
	observers := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		observers[i] = sub.fn
	}
	current := s.sections
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version
	for _, fn := range observers {
		fn(section.Clone(current))
	}
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, sec := range s.sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) checkFreshIDLocked(id string) error {
	if _, used := s.retired[id]; used || s.indexLocked(id) >= 0 {
		return &ValidationError{ID: id, Problems: []section.Problem{{Field: "id", Message: "already used in this template"}}}
	}
	return nil
}

func (s *Store) freshIDLocked() string {
	for {
		id := s.newID()
		if _, used := s.retired[id]; used {
			continue
		}
		if s.indexLocked(id) >= 0 {
			continue
		}
		return id
	}
}

func checkSection(sec section.Section) error {
	var problems []section.Problem
	if strings.TrimSpace(sec.ID) == "" {
		problems = append(problems, section.Problem{Field: "id", Message: "required"})
	}
	problems = append(problems, section.Validate(sec.Name, sec.Body)...)
	if len(problems) > 0 {
		return &ValidationError{ID: sec.ID, Problems: problems}
	}
	return nil
}

// Mutations never modify s.sections in place; commitLocked reads the slice
// after releasing the lock.
func insert(list []section.Section, idx int, sec section.Section) []section.Section {
	out := make([]section.Section, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, sec)
	return append(out, list[idx:]...)
}

func replace(list []section.Section, idx int, sec section.Section) []section.Section {
	out := append([]section.Section(nil), list...)
	out[idx] = sec
	return out
}
