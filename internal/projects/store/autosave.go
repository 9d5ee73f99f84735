package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

func projectKey(id string) string { return "project:" + id }
func sectionKey(id string) string { return "section:" + id }

// armDebounce arms (or re-arms) the single-shot settle timer for one entity.
// Edits inside the window cancel and replace the previous timer, so each
// settle period produces at most one write per entity.
func (s *Store) armDebounce(key string, flush func(ctx context.Context) error) {
	s.mu.Lock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(s.opts.Debounce, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.FlushTimeout)
		defer cancel()
		if err := flush(ctx); err != nil {
			log.Printf("[warn] operation=autosave entity=%s flush failed: %v", key, err)
		}
	})
	s.mu.Unlock()
}

// flushPendingProject writes the coalesced top-level edits for one project.
// The pending entry is consumed up front; on failure it is merged back so a
// later settle or manual save retries it.
func (s *Store) flushPendingProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	pc := s.pending[projectID]
	if pc == nil || pc.project.IsZero() {
		s.mu.Unlock()
		return nil
	}
	patch := pc.project
	pc.project = domain.ProjectPatch{}
	s.mu.Unlock()

	_, err := s.gw.UpdateProject(ctx, projectID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		if cur := s.pending[projectID]; cur != nil {
			cur.project = mergeProjectPatch(patch, cur.project)
		} else {
			restored := newPendingChanges()
			restored.project = patch
			s.pending[projectID] = restored
		}
		return err
	}
	s.settleLocked(projectID)
	return nil
}

// flushPendingSection writes the coalesced edits for one section.
func (s *Store) flushPendingSection(ctx context.Context, projectID, sectionID string) error {
	s.mu.Lock()
	pc := s.pending[projectID]
	if pc == nil {
		s.mu.Unlock()
		return nil
	}
	patch, ok := pc.sections[sectionID]
	if !ok || patch.IsZero() {
		s.mu.Unlock()
		return nil
	}
	delete(pc.sections, sectionID)
	s.mu.Unlock()

	_, err := s.gw.UpdateSection(ctx, sectionID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		cur := s.pending[projectID]
		if cur == nil {
			cur = newPendingChanges()
			s.pending[projectID] = cur
		}
		cur.sections[sectionID] = mergeSectionPatch(patch, cur.sections[sectionID])
		return err
	}
	s.settleLocked(projectID)
	return nil
}

// settleLocked clears the project's pending entry once drained and, when no
// project has anything pending, records the save point.
func (s *Store) settleLocked(projectID string) {
	if pc := s.pending[projectID]; pc != nil && pc.empty() {
		delete(s.pending, projectID)
	}
	if !s.anyPendingLocked() {
		s.lastSavedAt = s.now()
		s.unsaved = false
	}
}

// FlushPending synchronously writes every coalesced edit across all
// projects. Used by tests and by session teardown paths that want a best
// effort drain without waiting out debounce windows.
func (s *Store) FlushPending(ctx context.Context) error {
	s.mu.Lock()
	type work struct {
		projectID string
		sectionID string
		isProject bool
	}
	var jobs []work
	for projectID, pc := range s.pending {
		if !pc.project.IsZero() {
			jobs = append(jobs, work{projectID: projectID, isProject: true})
		}
		for sectionID := range pc.sections {
			jobs = append(jobs, work{projectID: projectID, sectionID: sectionID})
		}
	}
	s.mu.Unlock()

	var firstErr error
	for _, j := range jobs {
		var err error
		if j.isProject {
			err = s.flushPendingProject(ctx, j.projectID)
		} else {
			err = s.flushPendingSection(ctx, j.projectID, j.sectionID)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type autosaveLoop struct {
	c *cron.Cron
}

// StartAutosave runs a periodic flush, firing only when unsaved changes
// exist. The interval mirrors the manual save action; the keyboard shortcut
// and explicit save button both call SaveProject directly.
func (s *Store) StartAutosave(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autosave != nil {
		return nil
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if !s.HasUnsavedChanges() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.FlushTimeout)
		defer cancel()
		if err := s.FlushPending(ctx); err != nil {
			log.Printf("[warn] operation=autosave periodic flush failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("autosave schedule: %w", err)
	}
	c.Start()
	s.autosave = &autosaveLoop{c: c}
	return nil
}

// StopAutosave halts the periodic flush loop.
func (s *Store) StopAutosave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autosave != nil {
		s.autosave.c.Stop()
		s.autosave = nil
	}
}
