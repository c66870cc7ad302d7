package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tableflip.dev/notebuilder/pkg/store"
	"tableflip.dev/notebuilder/pkg/template"
)

// Format is a file format for import and export.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat reads "yaml", "yml" or "json". Empty input means YAML.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("app: unknown format %q (want yaml or json)", raw)
	}
}

// FormatForPath picks the format from a file extension, defaulting to YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Export writes the named template to w.
func (s *Service) Export(ctx context.Context, name string, format Format, w io.Writer) error {
	doc, err := s.Template(ctx, name)
	if err != nil {
		return err
	}
	return encodeDocument(w, format, doc)
}

// Import reads a template document from r and stores it. A non-empty name
// replaces the name found in the document. Every section must be complete
// and an existing template is never overwritten.
func (s *Service) Import(ctx context.Context, r io.Reader, format Format, name string) (*store.Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	doc, err := decodeDocument(r, format)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		doc.Name = name
	}
	doc.Name = strings.TrimSpace(doc.Name)
	if doc.Name == "" {
		return nil, fmt.Errorf("app: import: template name required")
	}
	if _, err := template.New(doc.Sections); err != nil {
		return nil, fmt.Errorf("app: import %q: %w", doc.Name, err)
	}
	if s.Persistence.Exists(doc.Name) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateExists, doc.Name)
	}
	doc.Schema = store.CurrentSchema
	if err := s.Persistence.Save(doc); err != nil {
		return nil, err
	}
	s.logger().Info("template imported", "template", doc.Name, "sections", len(doc.Sections))
	return doc, nil
}

func encodeDocument(w io.Writer, format Format, doc *store.Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("app: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("app: unknown format %q", format)
	}
}

func decodeDocument(r io.Reader, format Format) (*store.Document, error) {
	doc := &store.Document{}
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(doc); err != nil {
			return nil, fmt.Errorf("app: decode json: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.NewDecoder(r).Decode(doc); err != nil {
			return nil, fmt.Errorf("app: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("app: unknown format %q", format)
	}
	return doc, nil
}
