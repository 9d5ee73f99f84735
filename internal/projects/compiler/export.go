package compiler

import (
	"encoding/json"
	"time"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

// ExportDocument is the structural JSON snapshot of a project. Unlike the
// Markdown compile, it keeps sections with empty descriptions.
type ExportDocument struct {
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	GlobalPrompt string          `json:"globalPrompt"`
	Sections     []ExportSection `json:"sections"`
	ExportedAt   string          `json:"exportedAt"`
}

// ExportSection carries a section's content fields in export form.
type ExportSection struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Description      string  `json:"description"`
	ImageURL         *string `json:"imageUrl"`
	ImageDescription *string `json:"imageDescription"`
	StyleNotes       *string `json:"styleNotes"`
	AnimationNotes   *string `json:"animationNotes"`
}

// Export builds the JSON snapshot document for a project. Sections are
// ordered by "order" ascending and all of them are included.
func Export(p domain.Project, now time.Time) ExportDocument {
	sections := sortedSections(p)
	out := make([]ExportSection, 0, len(sections))
	for _, s := range sections {
		out = append(out, ExportSection{
			Name:             s.Name,
			Type:             string(s.Type),
			Description:      s.Description,
			ImageURL:         s.ImageURL,
			ImageDescription: s.ImageDescription,
			StyleNotes:       s.StyleNotes,
			AnimationNotes:   s.AnimationNotes,
		})
	}

	return ExportDocument{
		Name:         p.Name,
		Status:       string(p.Status),
		GlobalPrompt: p.GlobalPrompt,
		Sections:     out,
		ExportedAt:   now.UTC().Format(time.RFC3339),
	}
}

// ExportJSON renders the snapshot with two-space indentation.
func ExportJSON(p domain.Project, now time.Time) (string, error) {
	doc := Export(p, now)
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
