package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

const projectColumns = `id, user_id, name, status, global_prompt, created_at, updated_at`

// ProjectRepository provides persistence operations for projects.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row interface{ Scan(...any) error }, p *domain.Project) error {
	return row.Scan(&p.ID, &p.UserID, &p.Name, &p.Status, &p.GlobalPrompt, &p.CreatedAt, &p.UpdatedAt)
}

// List returns all projects owned by the user, most recently updated first,
// each with its sections attached in "order" ascending. Two queries total.
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]domain.Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	const q = `
select ` + projectColumns + `
from projects
where user_id = $1
order by updated_at desc;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		p.Sections = []domain.Section{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const sq = `
select ` + sectionColumnsQualified + `
from sections s
join projects p on p.id = s.project_id
where p.user_id = $1
order by s."order" asc;
`
	srows, err := r.db.QueryContext(ctx, sq, userID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var s domain.Section
		if err := scanSection(srows, &s); err != nil {
			return nil, err
		}
		if i, ok := index[s.ProjectID]; ok {
			out[i].Sections = append(out[i].Sections, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single project with its sections, or (nil, nil) when no such
// project exists for the user. Absence is a signal, not an error.
func (r *ProjectRepository) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	const q = `
select ` + projectColumns + `
from projects
where user_id = $1 and id = $2;
`
	var p domain.Project
	err := scanProject(r.db.QueryRowContext(ctx, q, userID, projectID), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	const sq = `
select ` + sectionColumns + `
from sections
where project_id = $1
order by "order" asc;
`
	rows, err := r.db.QueryContext(ctx, sq, projectID)
	if err != nil {
		return nil, fmt.Errorf("get sections: %w", err)
	}
	defer rows.Close()

	p.Sections = []domain.Section{}
	for rows.Next() {
		var s domain.Section
		if err := scanSection(rows, &s); err != nil {
			return nil, err
		}
		p.Sections = append(p.Sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project plus its six default sections. A failure
// inserting the defaults is logged and the project is still returned.
func (r *ProjectRepository) Create(ctx context.Context, userID, name string) (*domain.Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrNameRequired
	}

	const q = `
insert into projects (id, user_id, name, status, global_prompt)
values ($1, $2, $3, 'draft', '')
returning ` + projectColumns + `;
`
	var p domain.Project
	err := scanProject(r.db.QueryRowContext(ctx, q, uuid.New().String(), userID, strings.TrimSpace(name)), &p)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	p.Sections = []domain.Section{}

	sections, err := r.insertDefaultSections(ctx, p.ID)
	if err != nil {
		// Section creation failure is non-fatal to project creation.
		log.Printf("[warn] operation=create_project project_id=%s default sections failed: %v", p.ID, err)
		return &p, nil
	}
	p.Sections = sections
	return &p, nil
}

func (r *ProjectRepository) insertDefaultSections(ctx context.Context, projectID string) ([]domain.Section, error) {
	values := make([]string, 0, len(domain.DefaultSections))
	args := make([]any, 0, len(domain.DefaultSections)*5)
	n := 1
	for order, tpl := range domain.DefaultSections {
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, '', $%d)", n, n+1, n+2, n+3, n+4))
		args = append(args, uuid.New().String(), projectID, tpl.Name, string(tpl.Type), order)
		n += 5
	}

	q := `
insert into sections (id, project_id, name, type, description, "order")
values ` + strings.Join(values, ", ") + `
returning ` + sectionColumns + `;
`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Section, 0, len(domain.DefaultSections))
	for rows.Next() {
		var s domain.Section
		if err := scanSection(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update applies a partial update to the project's top-level fields.
func (r *ProjectRepository) Update(ctx context.Context, userID, projectID string, patch domain.ProjectPatch) (*domain.Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	set := []string{"updated_at = now()"}
	args := []any{userID, projectID}
	n := 3
	if patch.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", n))
		args = append(args, *patch.Name)
		n++
	}
	if patch.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", n))
		args = append(args, string(*patch.Status))
		n++
	}
	if patch.GlobalPrompt != nil {
		set = append(set, fmt.Sprintf("global_prompt = $%d", n))
		args = append(args, *patch.GlobalPrompt)
		n++
	}

	q := `
update projects
set ` + strings.Join(set, ", ") + `
where user_id = $1 and id = $2
returning ` + projectColumns + `;
`
	var p domain.Project
	err := scanProject(r.db.QueryRowContext(ctx, q, args...), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &p, nil
}

// Delete removes the project; sections go with it via the storage-level
// cascade. No confirmation of the cascade count is made.
func (r *ProjectRepository) Delete(ctx context.Context, userID, projectID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthenticated
	}

	const q = `delete from projects where user_id = $1 and id = $2;`
	res, err := r.db.ExecContext(ctx, q, userID, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Duplicate copies a project and all its sections under a new identity. The
// copy's name gets a "(Copy)" suffix; section copy failures are logged and
// do not fail the overall operation.
func (r *ProjectRepository) Duplicate(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	original, err := r.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}

	const q = `
insert into projects (id, user_id, name, status, global_prompt)
values ($1, $2, $3, $4, $5)
returning ` + projectColumns + `;
`
	var copy domain.Project
	err = scanProject(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), userID, original.Name+" (Copy)", string(original.Status), original.GlobalPrompt), &copy)
	if err != nil {
		return nil, fmt.Errorf("duplicate project: %w", err)
	}
	copy.Sections = []domain.Section{}

	if len(original.Sections) > 0 {
		if err := r.copySections(ctx, copy.ID, original.Sections); err != nil {
			log.Printf("[warn] operation=duplicate_project project_id=%s section copy failed: %v", copy.ID, err)
		}
	}

	duplicated, err := r.Get(ctx, userID, copy.ID)
	if err != nil {
		return nil, err
	}
	if duplicated == nil {
		return nil, fmt.Errorf("duplicated project vanished")
	}
	return duplicated, nil
}

func (r *ProjectRepository) copySections(ctx context.Context, projectID string, sections []domain.Section) error {
	values := make([]string, 0, len(sections))
	args := make([]any, 0, len(sections)*10)
	n := 1
	for _, s := range sections {
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			n, n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8, n+9))
		args = append(args, uuid.New().String(), projectID, s.Name, string(s.Type), s.Description,
			s.ImageURL, s.ImageDescription, s.StyleNotes, s.AnimationNotes, s.Order)
		n += 10
	}

	q := `
insert into sections (id, project_id, name, type, description, image_url, image_description, style_notes, animation_notes, "order")
values ` + strings.Join(values, ", ") + `;
`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}
