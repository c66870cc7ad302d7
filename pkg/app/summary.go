package app

import (
	"context"

	"tableflip.dev/notebuilder/pkg/section"
)

// KindCount is the number of sections of one kind.
type KindCount struct {
	Kind  section.Kind
	Count int
}

// SummaryResult counts stored templates and their sections by kind.
type SummaryResult struct {
	Templates int
	Sections  int
	// Kinds lists every kind in declaration order, including empty ones.
	Kinds []KindCount
	// Unreadable names templates that were listed but failed to load.
	Unreadable []string
}

// Summary walks every stored template and tallies its sections.
func (s *Service) Summary(ctx context.Context) (SummaryResult, error) {
	metas, err := s.Templates(ctx)
	if err != nil {
		return SummaryResult{}, err
	}
	counts := make(map[section.Kind]int)
	result := SummaryResult{Templates: len(metas)}
	for _, meta := range metas {
		if err := ctx.Err(); err != nil {
			return SummaryResult{}, err
		}
		doc, err := s.Persistence.Load(meta.Name)
		if err != nil {
			s.logger().Warn("summary: skipping template", "template", meta.Name, "err", err)
			result.Unreadable = append(result.Unreadable, meta.Name)
			continue
		}
		for _, sec := range doc.Sections {
			counts[sec.Kind()]++
			result.Sections++
		}
	}
	for _, kind := range section.AllKinds() {
		result.Kinds = append(result.Kinds, KindCount{Kind: kind, Count: counts[kind]})
	}
	return result, nil
}
