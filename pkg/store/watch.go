package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventTemplateChanged indicates the named template was written or
	// removed.
	EventTemplateChanged EventType = iota

	// EventTemplatesInvalidated signals a change that could not be tied to
	// one template; callers should reload everything they show.
	EventTemplatesInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventTemplateChanged:
		return "changed"
	case EventTemplatesInvalidated:
		return "invalidated"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type     EventType
	Template string
}

const watchDelay = 100 * time.Millisecond

// Watch streams change events for the templates directory until ctx is
// cancelled. The channel is closed when ctx is done or the watcher fails.
// Slow consumers lose events rather than block the watcher.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	dir := filepath.Join(p.basePath, templatesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure templates dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 64)
	throttle := newEventThrottle(watchDelay)

	var mu sync.Mutex
	closed := false
	send := func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case events <- ev:
		default:
			p.logger.Debug("watch event dropped", "type", ev.Type, "template", ev.Template)
		}
	}

	go func() {
		defer func() {
			throttle.Stop()
			if err := watcher.Close(); err != nil {
				p.logger.Warn("watcher close", "err", err)
			}
			mu.Lock()
			closed = true
			close(events)
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Debug("watcher error", "err", err)
				throttle.Enqueue(Event{Type: EventTemplatesInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				if name := p.templateForPath(evt.Name); name != "" {
					throttle.Enqueue(Event{Type: EventTemplateChanged, Template: name}, send)
					continue
				}
				throttle.Enqueue(Event{Type: EventTemplatesInvalidated}, send)
			}
		}
	}()

	return events, nil
}

// templateForPath derives the template name from a diskv file path. It
// returns "" for anything that is not a file directly under the templates
// directory.
func (p *persistence) templateForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return ""
	}
	dir, file := filepath.Split(rel)
	if filepath.Clean(dir) != templatesDir || file == "" {
		return ""
	}
	return fromKey(file)
}

// eventThrottle collects events for delay and then sends each changed
// template once, in first-seen order. An invalidation in the window replaces
// them all with a single invalidated event.
type eventThrottle struct {
	mu          sync.Mutex
	delay       time.Duration
	timer       *time.Timer
	names       []string
	seen        map[string]struct{}
	invalidated bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay, seen: make(map[string]struct{})}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case ev.Type == EventTemplatesInvalidated:
		t.invalidated = true
	default:
		if _, ok := t.seen[ev.Template]; !ok {
			t.seen[ev.Template] = struct{}{}
			t.names = append(t.names, ev.Template)
		}
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	names, invalidated := t.names, t.invalidated
	t.names, t.invalidated = nil, false
	t.seen = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	if invalidated {
		send(Event{Type: EventTemplatesInvalidated})
		return
	}
	for _, name := range names {
		send(Event{Type: EventTemplateChanged, Template: name})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
