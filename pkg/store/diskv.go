package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/notebuilder/pkg/section"
)

// ErrTemplateNotFound is returned for a template name with no stored document.
var ErrTemplateNotFound = errors.New("store: template not found")

// templatesDir is the diskv sub directory holding one file per template.
const templatesDir = "templates"

// Persistence defines the persistence contract for templates.
type Persistence interface {
	List(ctx context.Context) []Meta
	Load(name string) (*Document, error)
	Save(doc *Document) error
	Delete(name string) error
	Exists(name string) bool
	Watch(ctx context.Context) (<-chan Event, error)
}

// Option customises the diskv persistence.
type Option func(*persistence)

// WithLogger routes read and watch errors to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *persistence) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock overrides the time stamped on saved documents.
func WithClock(now func() time.Time) Option {
	return func(p *persistence) {
		if now != nil {
			p.now = now
		}
	}
}

// Load creates a Persistence backed by diskv using the provided config. A nil
// config is read with LoadConfig.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	cacheSize := cfg.CacheSize()
	if cacheSize == 0 {
		cacheSize = defaultCacheSize
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	p := &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      cacheSize,
		}),
		basePath: basePath,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	logger   *slog.Logger
	now      func() time.Time
}

func (p *persistence) read(key string) (*Document, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	if err := json.Unmarshal(val, doc); err != nil {
		return nil, err
	}
	if doc.Schema == "" {
		doc.Schema = CurrentSchema
	}
	if doc.Name == "" {
		doc.Name = fromKey(key)
	}
	return doc, nil
}

func (p *persistence) List(ctx context.Context) []Meta {
	all := make([]Meta, 0)
	for key := range p.d.Keys(ctx.Done()) {
		doc, err := p.read(key)
		if err != nil {
			p.logger.Warn("skipping unreadable template", "key", key, "err", err)
			continue
		}
		all = append(all, doc.Meta())
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}

func (p *persistence) Load(name string) (*Document, error) {
	key, err := toKey(name)
	if err != nil {
		return nil, err
	}
	if !p.d.Has(key) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	doc, err := p.read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", name, err)
	}
	return doc, nil
}

func (p *persistence) Save(doc *Document) error {
	if doc == nil {
		return errors.New("store: nil document")
	}
	key, err := toKey(doc.Name)
	if err != nil {
		return err
	}
	if doc.Schema == "" {
		doc.Schema = CurrentSchema
	}
	if doc.Sections == nil {
		doc.Sections = []section.Section{}
	}
	doc.Updated = p.now().UTC()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", doc.Name, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %q: %w", doc.Name, err)
	}
	return nil
}

func (p *persistence) Delete(name string) error {
	key, err := toKey(name)
	if err != nil {
		return err
	}
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return p.d.Erase(key)
}

func (p *persistence) Exists(name string) bool {
	key, err := toKey(name)
	if err != nil {
		return false
	}
	return p.d.Has(key)
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{templatesDir},
		FileName: key,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

// toKey encodes a template name so any name is a safe file name.
func toKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("store: template name required")
	}
	return base64.RawURLEncoding.EncodeToString([]byte(name)), nil
}

func fromKey(key string) string {
	name, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return ""
	}
	return string(name)
}
