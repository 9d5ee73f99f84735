package store

import "github.com/promptpage-dev/promptpage-backend/internal/projects/domain"

// pendingChanges is the coalescing buffer for one project's unflushed edits.
// Field edits land here as they happen and are collapsed into a single patch
// per entity, so a debounce settle writes each entity at most once.
type pendingChanges struct {
	project  domain.ProjectPatch
	sections map[string]domain.SectionPatch
}

func newPendingChanges() *pendingChanges {
	return &pendingChanges{sections: make(map[string]domain.SectionPatch)}
}

func (p *pendingChanges) empty() bool {
	return p.project.IsZero() && len(p.sections) == 0
}

func mergeProjectPatch(dst, src domain.ProjectPatch) domain.ProjectPatch {
	if src.Name != nil {
		dst.Name = src.Name
	}
	if src.Status != nil {
		dst.Status = src.Status
	}
	if src.GlobalPrompt != nil {
		dst.GlobalPrompt = src.GlobalPrompt
	}
	return dst
}

func mergeSectionPatch(dst, src domain.SectionPatch) domain.SectionPatch {
	if src.Name != nil {
		dst.Name = src.Name
	}
	if src.Type != nil {
		dst.Type = src.Type
	}
	if src.Description != nil {
		dst.Description = src.Description
	}
	if src.ImageURL != nil {
		dst.ImageURL = src.ImageURL
	}
	if src.ImageDescription != nil {
		dst.ImageDescription = src.ImageDescription
	}
	if src.StyleNotes != nil {
		dst.StyleNotes = src.StyleNotes
	}
	if src.AnimationNotes != nil {
		dst.AnimationNotes = src.AnimationNotes
	}
	if src.Order != nil {
		dst.Order = src.Order
	}
	return dst
}

func applyProjectPatch(p *domain.Project, patch domain.ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.GlobalPrompt != nil {
		p.GlobalPrompt = *patch.GlobalPrompt
	}
}

func applySectionPatch(s *domain.Section, patch domain.SectionPatch) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Type != nil {
		s.Type = *patch.Type
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		s.ImageURL = patch.ImageURL
	}
	if patch.ImageDescription != nil {
		s.ImageDescription = patch.ImageDescription
	}
	if patch.StyleNotes != nil {
		s.StyleNotes = patch.StyleNotes
	}
	if patch.AnimationNotes != nil {
		s.AnimationNotes = patch.AnimationNotes
	}
	if patch.Order != nil {
		s.Order = *patch.Order
	}
}
