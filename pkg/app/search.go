package app

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"tableflip.dev/notebuilder/pkg/section"
)

// SearchResult is one section matching a search query.
type SearchResult struct {
	Index   int
	Section section.Section
	Score   int
}

// sectionSource adapts sections to fuzzy.Source. Each section is matched on
// its name, kind and summary.
type sectionSource []section.Section

func (s sectionSource) String(i int) string {
	return strings.Join([]string{s[i].Name, string(s[i].Kind()), s[i].Summary()}, " ")
}

func (s sectionSource) Len() int { return len(s) }

// Search returns the sections of the named template that fuzzy-match query,
// best match first. An empty query returns every section in order.
func (s *Service) Search(ctx context.Context, name, query string) ([]SearchResult, error) {
	doc, err := s.Template(ctx, name)
	if err != nil {
		return nil, err
	}
	return searchSections(doc.Sections, query), nil
}

func searchSections(sections []section.Section, query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]SearchResult, len(sections))
		for i, sec := range sections {
			out[i] = SearchResult{Index: i, Section: sec}
		}
		return out
	}
	matches := fuzzy.FindFrom(query, sectionSource(sections))
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{Index: m.Index, Section: sections[m.Index], Score: m.Score})
	}
	return out
}
