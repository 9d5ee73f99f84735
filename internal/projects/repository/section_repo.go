package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

const sectionColumns = `id, project_id, name, type, description, image_url, image_description, style_notes, animation_notes, "order", created_at, updated_at`

const sectionColumnsQualified = `s.id, s.project_id, s.name, s.type, s.description, s.image_url, s.image_description, s.style_notes, s.animation_notes, s."order", s.created_at, s.updated_at`

// SectionRepository provides persistence operations for sections.
type SectionRepository struct {
	db *sql.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sql.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func scanSection(row interface{ Scan(...any) error }, s *domain.Section) error {
	return row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Type, &s.Description,
		&s.ImageURL, &s.ImageDescription, &s.StyleNotes, &s.AnimationNotes,
		&s.Order, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a section at the end of the project's sequence. The order is
// computed inside a transaction holding the project row, so concurrent adds
// cannot hand out the same slot.
func (r *SectionRepository) Create(ctx context.Context, userID, projectID string, in domain.NewSectionInput) (*domain.Section, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrNameRequired
	}
	if !domain.ValidSectionType(in.Type) {
		return nil, domain.ErrInvalidType
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var owned string
	err = tx.QueryRowContext(ctx, `
select id
from projects
where id = $1 and user_id = $2
for update;
`, projectID, userID).Scan(&owned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var next int
	if err := tx.QueryRowContext(ctx, `
select coalesce(max("order") + 1, 0)
from sections
where project_id = $1;
`, projectID).Scan(&next); err != nil {
		return nil, err
	}

	const q = `
insert into sections (id, project_id, name, type, description, image_url, image_description, style_notes, animation_notes, "order")
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning ` + sectionColumns + `;
`
	var s domain.Section
	err = scanSection(tx.QueryRowContext(ctx, q,
		uuid.New().String(), projectID, strings.TrimSpace(in.Name), string(in.Type), in.Description,
		in.ImageURL, in.ImageDescription, in.StyleNotes, in.AnimationNotes, next), &s)
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `update projects set updated_at = now() where id = $1;`, projectID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update applies a partial update to a section. The owning project's
// updated_at is refreshed in the same operation.
func (r *SectionRepository) Update(ctx context.Context, userID, sectionID string, patch domain.SectionPatch) (*domain.Section, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	set := []string{"updated_at = now()"}
	args := []any{userID, sectionID}
	n := 3
	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Type != nil {
		if !domain.ValidSectionType(*patch.Type) {
			return nil, domain.ErrInvalidType
		}
		add("type", string(*patch.Type))
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.ImageDescription != nil {
		add("image_description", *patch.ImageDescription)
	}
	if patch.StyleNotes != nil {
		add("style_notes", *patch.StyleNotes)
	}
	if patch.AnimationNotes != nil {
		add("animation_notes", *patch.AnimationNotes)
	}
	if patch.Order != nil {
		add(`"order"`, *patch.Order)
	}

	q := `
update sections s
set ` + strings.Join(set, ", ") + `
from projects p
where s.id = $2 and p.id = s.project_id and p.user_id = $1
returning ` + sectionColumnsQualified + `;
`
	var s domain.Section
	err := scanSection(r.db.QueryRowContext(ctx, q, args...), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `update projects set updated_at = now() where id = $1;`, s.ProjectID); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a section. Sibling order values are not re-normalized here;
// that is the cache layer's job.
func (r *SectionRepository) Delete(ctx context.Context, userID, sectionID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthenticated
	}

	const q = `
delete from sections s
using projects p
where s.id = $2 and p.id = s.project_id and p.user_id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, sectionID)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSectionNotFound
	}
	return nil
}

// Duplicate copies a section's content fields under a new identity. The copy
// gets a "(Copy)" name suffix and order = original + 1; a collision with a
// following section is tolerated until the next read normalizes it.
func (r *SectionRepository) Duplicate(ctx context.Context, userID, sectionID string) (*domain.Section, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	const fetch = `
select ` + sectionColumnsQualified + `
from sections s
join projects p on p.id = s.project_id
where s.id = $2 and p.user_id = $1;
`
	var original domain.Section
	err := scanSection(r.db.QueryRowContext(ctx, fetch, userID, sectionID), &original)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch section: %w", err)
	}

	const q = `
insert into sections (id, project_id, name, type, description, image_url, image_description, style_notes, animation_notes, "order")
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning ` + sectionColumns + `;
`
	var s domain.Section
	err = scanSection(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), original.ProjectID, original.Name+" (Copy)", string(original.Type),
		original.Description, original.ImageURL, original.ImageDescription,
		original.StyleNotes, original.AnimationNotes, original.Order+1), &s)
	if err != nil {
		return nil, fmt.Errorf("duplicate section: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `update projects set updated_at = now() where id = $1;`, s.ProjectID); err != nil {
		return nil, err
	}
	return &s, nil
}

// Reorder assigns each section's order to its index in orderedIDs, one update
// per id. Ids not belonging to the project fall out of the scoping filter and
// are left untouched rather than rejected.
func (r *SectionRepository) Reorder(ctx context.Context, userID, projectID string, orderedIDs []string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthenticated
	}

	const q = `
update sections s
set "order" = $4, updated_at = now()
from projects p
where s.id = $3 and s.project_id = $2 and p.id = s.project_id and p.user_id = $1;
`
	for i, id := range orderedIDs {
		if _, err := r.db.ExecContext(ctx, q, userID, projectID, id, i); err != nil {
			return fmt.Errorf("reorder section %s: %w", id, err)
		}
	}

	_, err := r.db.ExecContext(ctx, `update projects set updated_at = now() where id = $1 and user_id = $2;`, projectID, userID)
	return err
}
