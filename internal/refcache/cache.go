// Package refcache holds the workspaces and projects that resolved time
// entries point at. Each entity is stored once and shared by pointer.
package refcache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/observability"
	"toggl-entries/internal/ports"
)

// Cache is an identifier-keyed store of workspaces and projects.
// Workspaces are seeded at construction; projects are fetched lazily on the
// first EnsureFilled and again after each Invalidate.
//
// Published maps are never mutated. A refill builds new maps and swaps them
// in, so readers see either the previous set or the new one.
type Cache struct {
	fetcher   ports.ProjectFetcher
	wsFetcher ports.WorkspaceFetcher // nil when seeded by New
	log       *slog.Logger

	fillMu sync.Mutex // serializes fetches

	mu         sync.RWMutex
	workspaces map[int64]*domain.Workspace
	projects   map[int64]*domain.Project
	filled     bool
	gen        uint64 // bumped by Invalidate
}

// New seeds a cache with the session's workspaces. Workspaces stay fixed for
// the life of the cache; use Load to have them re-read after Invalidate.
func New(fetcher ports.ProjectFetcher, workspaces []domain.Workspace, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		fetcher:    fetcher,
		log:        log,
		workspaces: workspaceMap(workspaces),
	}
}

// Load fetches the session's workspaces and returns a cache seeded with them.
// The returned cache re-reads workspaces on the first fill after Invalidate.
func Load(ctx context.Context, ws ports.WorkspaceFetcher, ps ports.ProjectFetcher, log *slog.Logger) (*Cache, error) {
	workspaces, err := ws.FetchWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("refcache: fetching workspaces: %w", err)
	}
	c := New(ps, workspaces, log)
	c.wsFetcher = ws
	return c, nil
}

// EnsureFilled fetches the projects of every cached workspace unless the
// cache is already filled. Concurrent callers wait for a single fetch.
// Lookups keep answering from the previous set while a fetch is in flight.
// On failure the cache is left as it was.
func (c *Cache) EnsureFilled(ctx context.Context) error {
	if c.Filled() {
		return nil
	}

	c.fillMu.Lock()
	defer c.fillMu.Unlock()

	c.mu.RLock()
	filled, gen, workspaces := c.filled, c.gen, c.workspaces
	c.mu.RUnlock()
	if filled {
		return nil
	}

	refreshWorkspaces := gen > 0 && c.wsFetcher != nil
	if refreshWorkspaces {
		ws, err := c.wsFetcher.FetchWorkspaces(ctx)
		if err != nil {
			observability.RecordCacheFill(0, err)
			return fmt.Errorf("refcache: fetching workspaces: %w", err)
		}
		workspaces = workspaceMap(ws)
	}

	projects := make(map[int64]*domain.Project)
	for _, wid := range sortedIDs(workspaces) {
		ps, err := c.fetcher.FetchProjects(ctx, wid)
		if err != nil {
			observability.RecordCacheFill(0, err)
			return fmt.Errorf("refcache: fetching projects of workspace %d: %w", wid, err)
		}
		for _, p := range ps {
			projects[p.ID] = &p
		}
	}

	c.mu.Lock()
	c.workspaces = workspaces
	c.projects = projects
	// An Invalidate during the fetch leaves the cache stale.
	c.filled = c.gen == gen
	c.mu.Unlock()

	observability.RecordCacheFill(len(projects), nil)
	c.log.Debug("reference cache filled",
		slog.Int("workspaces", len(workspaces)),
		slog.Bool("workspaces_refreshed", refreshWorkspaces),
		slog.Int("projects", len(projects)),
	)
	return nil
}

// Invalidate marks the cache stale so the next EnsureFilled refetches.
// Cached entities stay visible until the refetch succeeds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.filled = false
	c.gen++
	c.mu.Unlock()
	observability.RecordCacheInvalidation()
}

// Filled reports whether the cache holds a current fetch.
func (c *Cache) Filled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filled
}

// Snapshot fills the cache if needed and returns a consistent view of it.
// The view is unaffected by later invalidations or refills.
func (c *Cache) Snapshot(ctx context.Context) (View, error) {
	if err := c.EnsureFilled(ctx); err != nil {
		return View{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{workspaces: c.workspaces, projects: c.projects}, nil
}

// Workspace returns the cached workspace with the given id.
func (c *Cache) Workspace(id int64) (*domain.Workspace, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.workspaces[id]
	return w, ok
}

// Project returns the cached project with the given id.
func (c *Cache) Project(id int64) (*domain.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.projects[id]
	return p, ok
}

// Workspaces returns the cached workspaces ordered by id.
func (c *Cache) Workspaces() []*domain.Workspace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.Workspace, 0, len(c.workspaces))
	for _, id := range sortedIDs(c.workspaces) {
		out = append(out, c.workspaces[id])
	}
	return out
}

// Projects returns the cached projects ordered by id.
func (c *Cache) Projects() []*domain.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.Project, 0, len(c.projects))
	for _, p := range c.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// View is a read-only snapshot of the cache.
type View struct {
	workspaces map[int64]*domain.Workspace
	projects   map[int64]*domain.Project
}

func (v View) Workspace(id int64) (*domain.Workspace, bool) {
	w, ok := v.workspaces[id]
	return w, ok
}

func (v View) Project(id int64) (*domain.Project, bool) {
	p, ok := v.projects[id]
	return p, ok
}

func workspaceMap(workspaces []domain.Workspace) map[int64]*domain.Workspace {
	m := make(map[int64]*domain.Workspace, len(workspaces))
	for _, w := range workspaces {
		m[w.ID] = &w
	}
	return m
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
