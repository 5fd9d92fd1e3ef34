package ports

import (
	"context"
	"time"

	"toggl-entries/internal/domain"
)

// Transport issues one request against the Toggl API. path is relative to
// the API base and may carry a query string. body, when non-nil, is sent as
// JSON. The raw response body of a 2xx answer is returned; anything else is
// a *domain.TransportError.
type Transport interface {
	Do(ctx context.Context, method, path string, body any) ([]byte, error)
}

// WorkspaceFetcher loads the workspaces of the authenticated user.
type WorkspaceFetcher interface {
	FetchWorkspaces(ctx context.Context) ([]domain.Workspace, error)
}

// ProjectFetcher loads the projects of one workspace.
type ProjectFetcher interface {
	FetchProjects(ctx context.Context, workspaceID int64) ([]domain.Project, error)
}

// TimeEntryLister lists resolved time entries in a range.
type TimeEntryLister interface {
	ListRange(ctx context.Context, start, end *time.Time) ([]domain.TimeEntry, error)
}

// Sink receives entries and persists them to a target system.
type Sink interface {
	SyncEntries(ctx context.Context, entries []domain.TimeEntry) error
	SyncProjects(ctx context.Context, projects []domain.Project) error
}
