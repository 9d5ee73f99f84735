package repository

import (
	"context"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
	"github.com/promptpage-dev/promptpage-backend/internal/projects/store"
)

var _ store.Gateway = (*UserScope)(nil)

// UserScope binds the project and section repositories to a single identity,
// giving callers (the in-memory store in particular) a gateway view that does
// not have to thread the user id through every call.
type UserScope struct {
	UserID   string
	Projects *ProjectRepository
	Sections *SectionRepository
}

func NewUserScope(userID string, projects *ProjectRepository, sections *SectionRepository) *UserScope {
	return &UserScope{UserID: userID, Projects: projects, Sections: sections}
}

func (u *UserScope) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return u.Projects.List(ctx, u.UserID)
}

func (u *UserScope) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return u.Projects.Get(ctx, u.UserID, id)
}

func (u *UserScope) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	return u.Projects.Create(ctx, u.UserID, name)
}

func (u *UserScope) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	return u.Projects.Update(ctx, u.UserID, id, patch)
}

func (u *UserScope) DeleteProject(ctx context.Context, id string) error {
	return u.Projects.Delete(ctx, u.UserID, id)
}

func (u *UserScope) DuplicateProject(ctx context.Context, id string) (*domain.Project, error) {
	return u.Projects.Duplicate(ctx, u.UserID, id)
}

func (u *UserScope) CreateSection(ctx context.Context, projectID string, in domain.NewSectionInput) (*domain.Section, error) {
	return u.Sections.Create(ctx, u.UserID, projectID, in)
}

func (u *UserScope) UpdateSection(ctx context.Context, sectionID string, patch domain.SectionPatch) (*domain.Section, error) {
	return u.Sections.Update(ctx, u.UserID, sectionID, patch)
}

func (u *UserScope) DeleteSection(ctx context.Context, sectionID string) error {
	return u.Sections.Delete(ctx, u.UserID, sectionID)
}

func (u *UserScope) DuplicateSection(ctx context.Context, sectionID string) (*domain.Section, error) {
	return u.Sections.Duplicate(ctx, u.UserID, sectionID)
}

func (u *UserScope) ReorderSections(ctx context.Context, projectID string, orderedIDs []string) error {
	return u.Sections.Reorder(ctx, u.UserID, projectID, orderedIDs)
}
