// Package store holds the in-memory working copy of a user's projects and
// reconciles optimistic local edits with the persistence layer. Between
// saves the cache is authoritative; immediately after a successful Load or
// flush the remote store is. It is a replace-on-load, merge-on-mutation
// cache, deliberately not a diff/patch system.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

// Gateway is the persistence surface the store talks to, already scoped to
// one authenticated identity.
type Gateway interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, name string) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	DuplicateProject(ctx context.Context, id string) (*domain.Project, error)
	CreateSection(ctx context.Context, projectID string, in domain.NewSectionInput) (*domain.Section, error)
	UpdateSection(ctx context.Context, sectionID string, patch domain.SectionPatch) (*domain.Section, error)
	DeleteSection(ctx context.Context, sectionID string) error
	DuplicateSection(ctx context.Context, sectionID string) (*domain.Section, error)
	ReorderSections(ctx context.Context, projectID string, orderedIDs []string) error
}

// ErrSaveInFlight is returned when SaveProject is called for a project whose
// previous flush has not finished. The project update strictly precedes the
// section updates within a flush, so two interleaved flushes could tear that
// ordering; callers re-trigger instead.
var ErrSaveInFlight = errors.New("save already in progress for project")

// Options tune the store. Zero values pick the defaults.
type Options struct {
	// Debounce is the settle window for field edits before they are
	// persisted. Defaults to 500ms.
	Debounce time.Duration
	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
	// FlushTimeout bounds gateway calls made from debounce timers and the
	// autosave loop, which have no caller context. Defaults to 15s.
	FlushTimeout time.Duration
}

// Store is the single in-memory source of truth for one user session.
type Store struct {
	gw   Gateway
	now  func() time.Time
	opts Options

	mu              sync.Mutex
	projects        []domain.Project
	activeProjectID string
	loading         bool
	lastError       string
	lastSavedAt     time.Time
	unsaved         bool
	pending         map[string]*pendingChanges
	timers          map[string]*time.Timer
	saving          map[string]bool

	autosave *autosaveLoop
}

// New creates a store over the given gateway.
func New(gw Gateway, opts Options) *Store {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = 15 * time.Second
	}
	return &Store{
		gw:      gw,
		now:     opts.Now,
		opts:    opts,
		pending: make(map[string]*pendingChanges),
		timers:  make(map[string]*time.Timer),
		saving:  make(map[string]bool),
	}
}

// Close stops the autosave loop and cancels armed debounce timers. Pending
// edits are abandoned, matching session teardown semantics.
func (s *Store) Close() {
	s.StopAutosave()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

// Load fetches all projects and replaces local state entirely. The first
// project becomes active when none was selected before.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	projects, err := s.gw.ListProjects(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return err
	}

	s.projects = projects
	s.pending = make(map[string]*pendingChanges)
	s.lastSavedAt = s.now()
	s.unsaved = false
	if s.activeProjectID == "" && len(projects) > 0 {
		s.activeProjectID = projects[0].ID
	}
	return nil
}

// reload replaces the project list from the gateway while keeping the active
// selection. Used after mutations whose server-computed fields (new ids,
// orders) the cache cannot predict.
func (s *Store) reload(ctx context.Context) error {
	projects, err := s.gw.ListProjects(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	s.lastSavedAt = s.now()
	s.unsaved = false
	return nil
}

// Projects returns a snapshot copy of the cached projects.
func (s *Store) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Project returns a snapshot copy of one cached project, or nil.
func (s *Store) Project(id string) *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findLocked(id); p != nil {
		cp := *p
		cp.Sections = append([]domain.Section(nil), p.Sections...)
		return &cp
	}
	return nil
}

// ActiveProjectID returns the currently selected project id, or "".
func (s *Store) ActiveProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProjectID
}

// SetActiveProject changes the selection. No validation against the cache;
// a stale id simply resolves to no project.
func (s *Store) SetActiveProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeProjectID = id
}

// IsLoading reports whether a gateway call driven by the store is running.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// HasUnsavedChanges reports whether local edits have not reached the store.
func (s *Store) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

// LastSavedAt returns when the cache last matched the remote store.
func (s *Store) LastSavedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedAt
}

// LastError returns the last surfaced failure as a user-facing string.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Store) findLocked(id string) *domain.Project {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

func (s *Store) failLocked(err error) {
	s.lastError = err.Error()
	s.loading = false
}

// CreateProject persists first, then merges the returned project (with its
// six default sections) to the front of the cache and selects it.
func (s *Store) CreateProject(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	p, err := s.gw.CreateProject(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return "", err
	}
	s.projects = append([]domain.Project{*p}, s.projects...)
	s.activeProjectID = p.ID
	s.lastSavedAt = s.now()
	return p.ID, nil
}

// UpdateProject is a local-optimistic mutation: applied synchronously to the
// cache, marked unsaved, coalesced into the pending buffer and scheduled for
// a debounced write. No gateway call happens here.
func (s *Store) UpdateProject(id string, patch domain.ProjectPatch) {
	if patch.IsZero() {
		return
	}
	s.mu.Lock()
	p := s.findLocked(id)
	if p == nil {
		s.mu.Unlock()
		return
	}
	applyProjectPatch(p, patch)
	p.UpdatedAt = s.now()
	s.unsaved = true

	pc := s.pending[id]
	if pc == nil {
		pc = newPendingChanges()
		s.pending[id] = pc
	}
	pc.project = mergeProjectPatch(pc.project, patch)
	s.mu.Unlock()

	s.armDebounce(projectKey(id), func(ctx context.Context) error {
		return s.flushPendingProject(ctx, id)
	})
}

// UpdateSection mirrors UpdateProject for a single section.
func (s *Store) UpdateSection(projectID, sectionID string, patch domain.SectionPatch) {
	if patch.IsZero() {
		return
	}
	s.mu.Lock()
	p := s.findLocked(projectID)
	if p == nil {
		s.mu.Unlock()
		return
	}
	var found bool
	for i := range p.Sections {
		if p.Sections[i].ID == sectionID {
			applySectionPatch(&p.Sections[i], patch)
			p.Sections[i].UpdatedAt = s.now()
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	p.UpdatedAt = s.now()
	s.unsaved = true

	pc := s.pending[projectID]
	if pc == nil {
		pc = newPendingChanges()
		s.pending[projectID] = pc
	}
	pc.sections[sectionID] = mergeSectionPatch(pc.sections[sectionID], patch)
	s.mu.Unlock()

	s.armDebounce(sectionKey(sectionID), func(ctx context.Context) error {
		return s.flushPendingSection(ctx, projectID, sectionID)
	})
}

// DeleteProject persists first; the cache drops the project only on success.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	err := s.gw.DeleteProject(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return err
	}

	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	delete(s.pending, id)
	if s.activeProjectID == id {
		s.activeProjectID = ""
		if len(s.projects) > 0 {
			s.activeProjectID = s.projects[0].ID
		}
	}
	return nil
}

// DuplicateProject persists first, then prepends the returned copy and
// selects it.
func (s *Store) DuplicateProject(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	p, err := s.gw.DuplicateProject(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return "", err
	}
	s.projects = append([]domain.Project{*p}, s.projects...)
	s.activeProjectID = p.ID
	s.lastSavedAt = s.now()
	return p.ID, nil
}

// AddSection persists first, then reloads the whole list so server-computed
// fields (the new section's order) land in the cache.
func (s *Store) AddSection(ctx context.Context, projectID string, in domain.NewSectionInput) error {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	_, err := s.gw.CreateSection(ctx, projectID, in)
	if err == nil {
		err = s.reload(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return err
	}
	return nil
}

// DeleteSection persists first, then drops the section locally and
// re-normalizes the survivors to a dense 0..n-1 order.
func (s *Store) DeleteSection(ctx context.Context, projectID, sectionID string) error {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	err := s.gw.DeleteSection(ctx, sectionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return err
	}

	p := s.findLocked(projectID)
	if p == nil {
		return nil
	}
	kept := p.Sections[:0]
	for _, sec := range p.Sections {
		if sec.ID != sectionID {
			kept = append(kept, sec)
		}
	}
	for i := range kept {
		kept[i].Order = i
	}
	p.Sections = kept
	p.UpdatedAt = s.now()
	s.unsaved = true
	if pc := s.pending[projectID]; pc != nil {
		delete(pc.sections, sectionID)
	}
	return nil
}

// DuplicateSection persists first, then reloads the list; the copy's order
// may collide with a sibling until the ordered read normalizes positions.
func (s *Store) DuplicateSection(ctx context.Context, projectID, sectionID string) error {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	_, err := s.gw.DuplicateSection(ctx, sectionID)
	if err == nil {
		err = s.reload(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return err
	}
	return nil
}

// ReorderSections persists first, then applies the permutation locally with
// dense orders. Ids missing from the cache are skipped, not invented.
func (s *Store) ReorderSections(ctx context.Context, projectID string, orderedIDs []string) error {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	err := s.gw.ReorderSections(ctx, projectID, orderedIDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.failLocked(err)
		return err
	}

	p := s.findLocked(projectID)
	if p == nil {
		return nil
	}
	byID := make(map[string]domain.Section, len(p.Sections))
	for _, sec := range p.Sections {
		byID[sec.ID] = sec
	}
	reordered := make([]domain.Section, 0, len(p.Sections))
	for _, id := range orderedIDs {
		if sec, ok := byID[id]; ok {
			sec.Order = len(reordered)
			reordered = append(reordered, sec)
		}
	}
	p.Sections = reordered
	p.UpdatedAt = s.now()
	s.unsaved = true
	return nil
}

// SaveProject flushes one project: top-level fields first, then every
// section sequentially in array order, each call awaited before the next.
// One failure aborts the remainder and leaves the unsaved flag set.
// Concurrent flushes of the same project are rejected with ErrSaveInFlight.
func (s *Store) SaveProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	if s.saving[projectID] {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	p := s.findLocked(projectID)
	if p == nil {
		s.mu.Unlock()
		return nil
	}
	snapshot := *p
	snapshot.Sections = append([]domain.Section(nil), p.Sections...)
	s.saving[projectID] = true
	s.loading = true
	s.mu.Unlock()

	err := s.flushSnapshot(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saving, projectID)
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	delete(s.pending, projectID)
	s.lastSavedAt = s.now()
	s.unsaved = s.anyPendingLocked()
	return nil
}

func (s *Store) flushSnapshot(ctx context.Context, p domain.Project) error {
	name, status, prompt := p.Name, p.Status, p.GlobalPrompt
	_, err := s.gw.UpdateProject(ctx, p.ID, domain.ProjectPatch{
		Name:         &name,
		Status:       &status,
		GlobalPrompt: &prompt,
	})
	if err != nil {
		return err
	}

	for i := range p.Sections {
		sec := p.Sections[i]
		secName, secType, desc, order := sec.Name, sec.Type, sec.Description, sec.Order
		_, err := s.gw.UpdateSection(ctx, sec.ID, domain.SectionPatch{
			Name:             &secName,
			Type:             &secType,
			Description:      &desc,
			ImageURL:         sec.ImageURL,
			ImageDescription: sec.ImageDescription,
			StyleNotes:       sec.StyleNotes,
			AnimationNotes:   sec.AnimationNotes,
			Order:            &order,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) anyPendingLocked() bool {
	for _, pc := range s.pending {
		if !pc.empty() {
			return true
		}
	}
	return false
}
