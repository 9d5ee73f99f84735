// Package compiler turns a project into its two export forms: a Markdown
// prompt meant as a consumable instruction set for a code-generation model,
// and a JSON snapshot meant as a faithful copy of the project's content.
// Both are pure transformations with no I/O.
package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

// sortedSections returns the project's sections ordered by "order" ascending
// without mutating the project.
func sortedSections(p domain.Project) []domain.Section {
	out := make([]domain.Section, len(p.Sections))
	copy(out, p.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Markdown compiles the project into a single prompt string. Sections whose
// description is empty or whitespace-only are dropped; the remainder are
// emitted in order with 1-based numbering.
func Markdown(p domain.Project) string {
	sections := sortedSections(p)
	kept := sections[:0]
	for _, s := range sections {
		if strings.TrimSpace(s.Description) != "" {
			kept = append(kept, s)
		}
	}

	var b strings.Builder

	if strings.TrimSpace(p.GlobalPrompt) != "" {
		b.WriteString("# Global Instructions\n\n")
		b.WriteString(strings.TrimSpace(p.GlobalPrompt))
		b.WriteString("\n\n---\n\n")
	}

	if len(kept) > 0 {
		b.WriteString("# Landing Page Sections\n\n")

		for i, s := range kept {
			fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Name)
			b.WriteString(strings.TrimSpace(s.Description))
			b.WriteString("\n\n")

			imageURL := deref(s.ImageURL)
			imageDescription := deref(s.ImageDescription)
			if imageURL != "" || imageDescription != "" {
				b.WriteString("### Image\n")
				if imageURL != "" {
					fmt.Fprintf(&b, "- URL: %s\n", imageURL)
				}
				if imageDescription != "" {
					fmt.Fprintf(&b, "- Description: %s\n", imageDescription)
				}
				b.WriteString("\n")
			}

			if notes := deref(s.StyleNotes); notes != "" {
				fmt.Fprintf(&b, "### Style\n%s\n\n", notes)
			}

			if notes := deref(s.AnimationNotes); notes != "" {
				fmt.Fprintf(&b, "### Animations\n%s\n\n", notes)
			}

			if i < len(kept)-1 {
				b.WriteString("---\n\n")
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Filename builds the download name for an export: the project name
// lower-cased with whitespace collapsed to dashes, plus the extension.
func Filename(projectName, ext string) string {
	name := strings.ToLower(strings.TrimSpace(projectName))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "untitled"
	}
	return name + "-prompt." + ext
}
