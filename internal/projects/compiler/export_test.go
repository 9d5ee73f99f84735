package compiler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

func TestExport_KeepsEmptySections(t *testing.T) {
	p := domain.Project{
		Name:         "Acme",
		Status:       domain.StatusDraft,
		GlobalPrompt: "Dark theme",
		Sections: []domain.Section{
			{Name: "Hero", Type: domain.TypeHero, Order: 0, Description: "Headline"},
			{Name: "Features", Type: domain.TypeFeatures, Order: 1, Description: ""},
		},
	}

	doc := Export(p, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Features", doc.Sections[1].Name)
	assert.Equal(t, "", doc.Sections[1].Description)
	assert.Equal(t, "2026-03-01T12:00:00Z", doc.ExportedAt)
	assert.Equal(t, "draft", doc.Status)
}

func TestExport_SortsByOrder(t *testing.T) {
	p := domain.Project{
		Sections: []domain.Section{
			{Name: "Footer", Order: 2},
			{Name: "Hero", Order: 0},
			{Name: "Pricing", Order: 1},
		},
	}

	doc := Export(p, time.Now())
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "Hero", doc.Sections[0].Name)
	assert.Equal(t, "Pricing", doc.Sections[1].Name)
	assert.Equal(t, "Footer", doc.Sections[2].Name)
}

func TestExportJSON_FieldNames(t *testing.T) {
	url := "https://example.com/a.png"
	p := domain.Project{
		Name:   "Acme",
		Status: domain.StatusReady,
		Sections: []domain.Section{
			{Name: "Hero", Type: domain.TypeHero, ImageURL: &url},
		},
	}

	out, err := ExportJSON(p, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, "Acme", raw["name"])
	assert.Equal(t, "ready", raw["status"])
	assert.Contains(t, raw, "globalPrompt")
	assert.Contains(t, raw, "exportedAt")

	sections, ok := raw["sections"].([]any)
	require.True(t, ok)
	require.Len(t, sections, 1)
	section := sections[0].(map[string]any)
	assert.Equal(t, url, section["imageUrl"])
	assert.Nil(t, section["styleNotes"])
}
