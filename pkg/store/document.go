package store

import (
	"time"

	"tableflip.dev/notebuilder/pkg/section"
)

// CurrentSchema tags documents written by this version.
const CurrentSchema = "notebuilder.template/v1"

// Document is one persisted template: its name and ordered sections.
type Document struct {
	Schema   string            `json:"schema" yaml:"schema"`
	Name     string            `json:"name" yaml:"name"`
	Updated  time.Time         `json:"updated" yaml:"updated"`
	Sections []section.Section `json:"sections" yaml:"sections"`
}

// Meta summarises a stored template for listings.
type Meta struct {
	Name     string    `json:"name"`
	Sections int       `json:"sections"`
	Updated  time.Time `json:"updated"`
}

// Meta returns the listing summary of d.
func (d *Document) Meta() Meta {
	return Meta{Name: d.Name, Sections: len(d.Sections), Updated: d.Updated}
}
