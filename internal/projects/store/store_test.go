package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

// fakeGateway records every call in order and serves canned data, so tests
// can assert both what was written and when.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	projects []domain.Project

	projectPatches map[string][]domain.ProjectPatch
	sectionPatches map[string][]domain.SectionPatch

	listErr          error
	updateProjectErr error
	updateSectionErr map[string]error

	updateProjectStarted chan struct{}
	updateProjectRelease chan struct{}
}

func newFakeGateway(projects ...domain.Project) *fakeGateway {
	return &fakeGateway{
		projects:         projects,
		projectPatches:   make(map[string][]domain.ProjectPatch),
		sectionPatches:   make(map[string][]domain.SectionPatch),
		updateSectionErr: make(map[string]error),
	}
}

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) callLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) ListProjects(ctx context.Context) ([]domain.Project, error) {
	g.record("list")
	if g.listErr != nil {
		return nil, g.listErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Project(nil), g.projects...), nil
}

func (g *fakeGateway) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	g.record("get:" + id)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.projects {
		if g.projects[i].ID == id {
			cp := g.projects[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (g *fakeGateway) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	g.record("create-project:" + name)
	return &domain.Project{ID: "p-new", Name: name, Status: domain.StatusDraft}, nil
}

func (g *fakeGateway) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if g.updateProjectStarted != nil {
		g.updateProjectStarted <- struct{}{}
		<-g.updateProjectRelease
	}
	g.record("update-project:" + id)
	g.mu.Lock()
	g.projectPatches[id] = append(g.projectPatches[id], patch)
	err := g.updateProjectErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &domain.Project{ID: id}, nil
}

func (g *fakeGateway) DeleteProject(ctx context.Context, id string) error {
	g.record("delete-project:" + id)
	return nil
}

func (g *fakeGateway) DuplicateProject(ctx context.Context, id string) (*domain.Project, error) {
	g.record("duplicate-project:" + id)
	return &domain.Project{ID: id + "-copy", Name: "Copy"}, nil
}

func (g *fakeGateway) CreateSection(ctx context.Context, projectID string, in domain.NewSectionInput) (*domain.Section, error) {
	g.record("create-section:" + projectID)
	return &domain.Section{ID: "s-new", ProjectID: projectID, Name: in.Name}, nil
}

func (g *fakeGateway) UpdateSection(ctx context.Context, sectionID string, patch domain.SectionPatch) (*domain.Section, error) {
	g.record("update-section:" + sectionID)
	g.mu.Lock()
	g.sectionPatches[sectionID] = append(g.sectionPatches[sectionID], patch)
	err := g.updateSectionErr[sectionID]
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &domain.Section{ID: sectionID}, nil
}

func (g *fakeGateway) DeleteSection(ctx context.Context, sectionID string) error {
	g.record("delete-section:" + sectionID)
	return nil
}

func (g *fakeGateway) DuplicateSection(ctx context.Context, sectionID string) (*domain.Section, error) {
	g.record("duplicate-section:" + sectionID)
	return &domain.Section{ID: sectionID + "-copy"}, nil
}

func (g *fakeGateway) ReorderSections(ctx context.Context, projectID string, orderedIDs []string) error {
	g.record("reorder:" + projectID)
	return nil
}

func testProject(id string, sections ...domain.Section) domain.Project {
	return domain.Project{
		ID:       id,
		Name:     "Project " + id,
		Status:   domain.StatusDraft,
		Sections: sections,
	}
}

func testSection(id string, order int) domain.Section {
	return domain.Section{ID: id, Name: "Section " + id, Type: domain.TypeCustom, Order: order}
}

func newTestStore(t *testing.T, gw Gateway) *Store {
	t.Helper()
	s := New(gw, Options{Debounce: time.Hour}) // long debounce: tests flush explicitly
	t.Cleanup(s.Close)
	return s
}

func TestLoad_SelectsFirstProject(t *testing.T) {
	gw := newFakeGateway(testProject("p1"), testProject("p2"))
	s := newTestStore(t, gw)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, "p1", s.ActiveProjectID())
	assert.Len(t, s.Projects(), 2)
	assert.False(t, s.HasUnsavedChanges())
	assert.False(t, s.IsLoading())
}

func TestLoad_KeepsExistingSelection(t *testing.T) {
	gw := newFakeGateway(testProject("p1"), testProject("p2"))
	s := newTestStore(t, gw)
	s.SetActiveProject("p2")

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, "p2", s.ActiveProjectID())
}

func TestLoad_SurfacesError(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = errors.New("db down")
	s := newTestStore(t, gw)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "db down", s.LastError())
	assert.False(t, s.IsLoading())
}

func TestCreateProject_PrependsAndSelects(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	id, err := s.CreateProject(context.Background(), "Fresh")
	require.NoError(t, err)
	assert.Equal(t, "p-new", id)
	assert.Equal(t, "p-new", s.ActiveProjectID())

	projects := s.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "p-new", projects[0].ID)
}

func TestUpdateProject_OptimisticWithoutGatewayCall(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))
	before := len(gw.callLog())

	name := "Renamed"
	s.UpdateProject("p1", domain.ProjectPatch{Name: &name})

	assert.Equal(t, "Renamed", s.Project("p1").Name)
	assert.True(t, s.HasUnsavedChanges())
	assert.Equal(t, before, len(gw.callLog()), "optimistic edit must not hit the gateway")
}

func TestUpdateProject_UnknownIDIsNoop(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	name := "Ghost"
	s.UpdateProject("missing", domain.ProjectPatch{Name: &name})
	assert.False(t, s.HasUnsavedChanges())
}

func TestUpdateSection_OptimisticAndTouchesProject(t *testing.T) {
	gw := newFakeGateway(testProject("p1", testSection("s1", 0)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	desc := "New copy"
	s.UpdateSection("p1", "s1", domain.SectionPatch{Description: &desc})

	p := s.Project("p1")
	assert.Equal(t, "New copy", p.Sections[0].Description)
	assert.True(t, s.HasUnsavedChanges())
}

func TestSaveProject_ProjectBeforeSectionsInArrayOrder(t *testing.T) {
	gw := newFakeGateway(testProject("p1", testSection("s1", 0), testSection("s2", 1)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	name := "Renamed"
	s.UpdateProject("p1", domain.ProjectPatch{Name: &name})
	require.NoError(t, s.SaveProject(context.Background(), "p1"))

	calls := gw.callLog()
	assert.Equal(t, []string{"list", "update-project:p1", "update-section:s1", "update-section:s2"}, calls)
	assert.False(t, s.HasUnsavedChanges())

	// full snapshot, not just the edited field
	require.Len(t, gw.projectPatches["p1"], 1)
	patch := gw.projectPatches["p1"][0]
	require.NotNil(t, patch.Name)
	require.NotNil(t, patch.Status)
	require.NotNil(t, patch.GlobalPrompt)
	assert.Equal(t, "Renamed", *patch.Name)
}

func TestSaveProject_SectionFailureKeepsUnsaved(t *testing.T) {
	gw := newFakeGateway(testProject("p1", testSection("s1", 0), testSection("s2", 1)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))
	saved := s.LastSavedAt()

	name := "Renamed"
	s.UpdateProject("p1", domain.ProjectPatch{Name: &name})
	gw.updateSectionErr["s1"] = errors.New("conflict")

	err := s.SaveProject(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, s.HasUnsavedChanges())
	assert.Equal(t, saved, s.LastSavedAt())
	assert.Equal(t, "conflict", s.LastError())
	assert.NotContains(t, gw.callLog(), "update-section:s2", "flush must stop at the first failure")
}

func TestSaveProject_RejectsConcurrentFlush(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	gw.updateProjectStarted = make(chan struct{})
	gw.updateProjectRelease = make(chan struct{})
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	done := make(chan error, 1)
	go func() { done <- s.SaveProject(context.Background(), "p1") }()

	<-gw.updateProjectStarted
	err := s.SaveProject(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(gw.updateProjectRelease)
	require.NoError(t, <-done)

	// gate released: a later save goes through
	gw.updateProjectStarted = nil
	require.NoError(t, s.SaveProject(context.Background(), "p1"))
}

func TestSaveProject_UnknownProjectIsNoop(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.SaveProject(context.Background(), "missing"))
	assert.NotContains(t, gw.callLog(), "update-project:missing")
}

func TestDeleteProject_MovesSelection(t *testing.T) {
	gw := newFakeGateway(testProject("p1"), testProject("p2"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))
	require.Equal(t, "p1", s.ActiveProjectID())

	require.NoError(t, s.DeleteProject(context.Background(), "p1"))
	assert.Equal(t, "p2", s.ActiveProjectID())
	assert.Len(t, s.Projects(), 1)
}

func TestDeleteProject_LastOneClearsSelection(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.DeleteProject(context.Background(), "p1"))
	assert.Equal(t, "", s.ActiveProjectID())
	assert.Empty(t, s.Projects())
}

func TestDuplicateProject_PrependsCopy(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	id, err := s.DuplicateProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1-copy", id)
	assert.Equal(t, "p1-copy", s.ActiveProjectID())
	assert.Equal(t, "p1-copy", s.Projects()[0].ID)
}

func TestAddSection_ReloadsFromGateway(t *testing.T) {
	gw := newFakeGateway(testProject("p1"))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.AddSection(context.Background(), "p1", domain.NewSectionInput{Name: "Hero", Type: domain.TypeHero}))
	calls := gw.callLog()
	assert.Equal(t, "create-section:p1", calls[len(calls)-2])
	assert.Equal(t, "list", calls[len(calls)-1])
}

func TestDeleteSection_RenormalizesOrders(t *testing.T) {
	gw := newFakeGateway(testProject("p1",
		testSection("s1", 0), testSection("s2", 1), testSection("s3", 2)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.DeleteSection(context.Background(), "p1", "s2"))

	p := s.Project("p1")
	require.Len(t, p.Sections, 2)
	assert.Equal(t, "s1", p.Sections[0].ID)
	assert.Equal(t, 0, p.Sections[0].Order)
	assert.Equal(t, "s3", p.Sections[1].ID)
	assert.Equal(t, 1, p.Sections[1].Order)
	assert.True(t, s.HasUnsavedChanges())
}

func TestReorderSections_AppliesPermutation(t *testing.T) {
	gw := newFakeGateway(testProject("p1",
		testSection("s1", 0), testSection("s2", 1), testSection("s3", 2)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.ReorderSections(context.Background(), "p1", []string{"s3", "s1", "s2"}))

	p := s.Project("p1")
	require.Len(t, p.Sections, 3)
	assert.Equal(t, "s3", p.Sections[0].ID)
	assert.Equal(t, 0, p.Sections[0].Order)
	assert.Equal(t, "s1", p.Sections[1].ID)
	assert.Equal(t, 1, p.Sections[1].Order)
	assert.Equal(t, "s2", p.Sections[2].ID)
	assert.Equal(t, 2, p.Sections[2].Order)
}

func TestReorderSections_SkipsUnknownIDs(t *testing.T) {
	gw := newFakeGateway(testProject("p1", testSection("s1", 0), testSection("s2", 1)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.ReorderSections(context.Background(), "p1", []string{"s2", "ghost", "s1"}))

	p := s.Project("p1")
	require.Len(t, p.Sections, 2)
	assert.Equal(t, "s2", p.Sections[0].ID)
	assert.Equal(t, "s1", p.Sections[1].ID)
}

func TestProject_ReturnsCopy(t *testing.T) {
	gw := newFakeGateway(testProject("p1", testSection("s1", 0)))
	s := newTestStore(t, gw)
	require.NoError(t, s.Load(context.Background()))

	p := s.Project("p1")
	p.Name = "mutated"
	p.Sections[0].Name = "mutated"

	fresh := s.Project("p1")
	assert.Equal(t, "Project p1", fresh.Name)
	assert.Equal(t, "Section s1", fresh.Sections[0].Name)
}
