package domain

// SectionTemplate is the static name + description stub used to pre-fill a
// new section when the user picks a type.
type SectionTemplate struct {
	Name        string      `json:"name"`
	Type        SectionType `json:"type"`
	Description string      `json:"description"`
}

// DefaultSections is the fixed template list inserted when a project is
// created: order 0..5, empty descriptions, status stays draft.
var DefaultSections = []SectionTemplate{
	{Name: "Hero", Type: TypeHero},
	{Name: "Features", Type: TypeFeatures},
	{Name: "Testimonials", Type: TypeTestimonials},
	{Name: "Pricing", Type: TypePricing},
	{Name: "CTA", Type: TypeCTA},
	{Name: "Footer", Type: TypeFooter},
}

// SectionTemplates maps every section type to its pre-fill stub.
var SectionTemplates = map[SectionType]SectionTemplate{
	TypeHero: {
		Name:        "Hero",
		Type:        TypeHero,
		Description: "Main landing section with headline, subheadline, and primary CTA",
	},
	TypeFeatures: {
		Name:        "Features",
		Type:        TypeFeatures,
		Description: "Showcase key product features with icons and descriptions",
	},
	TypeTestimonials: {
		Name:        "Testimonials",
		Type:        TypeTestimonials,
		Description: "Social proof section with customer quotes and avatars",
	},
	TypePricing: {
		Name:        "Pricing",
		Type:        TypePricing,
		Description: "Pricing tiers and plans comparison",
	},
	TypeCTA: {
		Name:        "CTA",
		Type:        TypeCTA,
		Description: "Call-to-action section for conversion",
	},
	TypeFooter: {
		Name:        "Footer",
		Type:        TypeFooter,
		Description: "Links, copyright, and additional information",
	},
	TypeCustom: {
		Name:        "Custom Section",
		Type:        TypeCustom,
		Description: "Define your own section type",
	},
}
