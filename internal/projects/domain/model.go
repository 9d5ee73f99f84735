package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusDraft ProjectStatus = "draft"
	StatusReady ProjectStatus = "ready"
)

// SectionType identifies what kind of landing page region a section describes.
type SectionType string

const (
	TypeHero         SectionType = "hero"
	TypeFeatures     SectionType = "features"
	TypeTestimonials SectionType = "testimonials"
	TypePricing      SectionType = "pricing"
	TypeCTA          SectionType = "cta"
	TypeFooter       SectionType = "footer"
	TypeCustom       SectionType = "custom"
)

// ValidSectionType reports whether t is one of the known section types.
func ValidSectionType(t SectionType) bool {
	switch t {
	case TypeHero, TypeFeatures, TypeTestimonials, TypePricing, TypeCTA, TypeFooter, TypeCustom:
		return true
	}
	return false
}

// Project is a single landing page prompt specification owned by a user.
// It is storage-agnostic and used across repository, store and HTTP layers.
type Project struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Name         string        `json:"name"`
	Status       ProjectStatus `json:"status"`
	GlobalPrompt string        `json:"global_prompt"`
	Sections     []Section     `json:"sections"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Section is one named, ordered region of a project. Order values within a
// project form a dense 0..n-1 sequence once any in-flight mutation settles.
type Section struct {
	ID               string      `json:"id"`
	ProjectID        string      `json:"project_id"`
	Name             string      `json:"name"`
	Type             SectionType `json:"type"`
	Description      string      `json:"description"`
	ImageURL         *string     `json:"image_url"`
	ImageDescription *string     `json:"image_description"`
	StyleNotes       *string     `json:"style_notes"`
	AnimationNotes   *string     `json:"animation_notes"`
	Order            int         `json:"order"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ProjectPatch carries a partial project update; nil fields are untouched.
type ProjectPatch struct {
	Name         *string        `json:"name,omitempty"`
	Status       *ProjectStatus `json:"status,omitempty"`
	GlobalPrompt *string        `json:"global_prompt,omitempty"`
}

// SectionPatch carries a partial section update; nil fields are untouched.
type SectionPatch struct {
	Name             *string      `json:"name,omitempty"`
	Type             *SectionType `json:"type,omitempty"`
	Description      *string      `json:"description,omitempty"`
	ImageURL         *string      `json:"image_url,omitempty"`
	ImageDescription *string      `json:"image_description,omitempty"`
	StyleNotes       *string      `json:"style_notes,omitempty"`
	AnimationNotes   *string      `json:"animation_notes,omitempty"`
	Order            *int         `json:"order,omitempty"`
}

// IsZero reports whether the patch carries no changes.
func (p ProjectPatch) IsZero() bool {
	return p.Name == nil && p.Status == nil && p.GlobalPrompt == nil
}

// IsZero reports whether the patch carries no changes.
func (p SectionPatch) IsZero() bool {
	return p.Name == nil && p.Type == nil && p.Description == nil &&
		p.ImageURL == nil && p.ImageDescription == nil &&
		p.StyleNotes == nil && p.AnimationNotes == nil && p.Order == nil
}

// NewSectionInput is the caller-supplied part of a section insert. Order is
// computed by the persistence layer (max sibling order + 1).
type NewSectionInput struct {
	Name             string      `json:"name"`
	Type             SectionType `json:"type"`
	Description      string      `json:"description"`
	ImageURL         *string     `json:"image_url"`
	ImageDescription *string     `json:"image_description"`
	StyleNotes       *string     `json:"style_notes"`
	AnimationNotes   *string     `json:"animation_notes"`
}
