package toggl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/wire"
)

// FetchMe returns the authenticated user, including their workspaces.
// GET /me answers with {"data": {...}}.
func (c *Client) FetchMe(ctx context.Context) (wire.Me, error) {
	const path = "/me"
	b, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return wire.Me{}, err
	}
	var env wire.Envelope[wire.Me]
	if err := json.Unmarshal(b, &env); err != nil {
		return wire.Me{}, &domain.DeserializationError{URL: path, Err: err}
	}
	if env.Data == nil {
		return wire.Me{}, &domain.DeserializationError{URL: path, Err: errors.New("missing data")}
	}
	return *env.Data, nil
}

// FetchWorkspaces implements ports.WorkspaceFetcher.
func (c *Client) FetchWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	me, err := c.FetchMe(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Workspace, 0, len(me.Workspaces))
	for _, w := range me.Workspaces {
		out = append(out, domain.Workspace{ID: w.ID, Name: w.Name})
	}
	return out, nil
}

// FetchProjects implements ports.ProjectFetcher.
// GET /workspaces/{wid}/projects answers with a bare array, or null when the
// workspace has no projects.
func (c *Client) FetchProjects(ctx context.Context, workspaceID int64) ([]domain.Project, error) {
	path := fmt.Sprintf("/workspaces/%d/projects", workspaceID)
	b, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var raw []wire.Project
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, &domain.DeserializationError{URL: path, Err: err}
	}
	out := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		out = append(out, domain.Project{
			ID:          p.ID,
			WorkspaceID: p.WID,
			Name:        p.Name,
			Active:      p.Active,
			Color:       p.Color,
		})
	}
	return out, nil
}
