package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"toggl-entries/internal/app"
	"toggl-entries/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printEntries(w io.Writer, entries []domain.TimeEntry, now time.Time) error {
	if c.json {
		views := make([]app.EntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, app.NewEntryView(e))
		}
		return writeJSON(w, map[string]any{"time_entries": views, "total": len(views)})
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No time entries found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tDURATION\tPROJECT\tDESCRIPTION\tTAGS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Start.Local().Format("2006-01-02 15:04"),
			formatDuration(e, now),
			projectName(e),
			e.Description,
			strings.Join(e.Tags, ","),
		)
	}
	return tw.Flush()
}

func (c *cli) printEntry(w io.Writer, e domain.TimeEntry, now time.Time) error {
	if c.json {
		return writeJSON(w, app.NewEntryView(e))
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Description:\t%s\n", e.Description)
	fmt.Fprintf(tw, "Workspace:\t%s\n", workspaceName(e))
	fmt.Fprintf(tw, "Project:\t%s\n", projectName(e))
	fmt.Fprintf(tw, "Start:\t%s\n", e.Start.Local().Format(time.RFC3339))
	if e.Stop != nil {
		fmt.Fprintf(tw, "Stop:\t%s\n", e.Stop.Local().Format(time.RFC3339))
	}
	fmt.Fprintf(tw, "Duration:\t%s\n", formatDuration(e, now))
	if len(e.Tags) > 0 {
		fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(e.Tags, ", "))
	}
	return tw.Flush()
}

func formatDuration(e domain.TimeEntry, now time.Time) string {
	d := app.Elapsed(e, now).String()
	if e.Running() {
		return d + " (running)"
	}
	return d
}

func projectName(e domain.TimeEntry) string {
	if e.Project == nil {
		return "-"
	}
	return e.Project.Name
}

func workspaceName(e domain.TimeEntry) string {
	if e.Workspace == nil {
		return "-"
	}
	return e.Workspace.Name
}

type workspaceLookup interface {
	Workspace(id int64) (*domain.Workspace, bool)
}

func (c *cli) printProjects(w io.Writer, projects []*domain.Project, ws workspaceLookup) error {
	if c.json {
		type projectView struct {
			ID          int64  `json:"id"`
			WorkspaceID int64  `json:"workspace_id"`
			Name        string `json:"name"`
			Active      bool   `json:"active"`
			Color       string `json:"color,omitempty"`
		}
		views := make([]projectView, 0, len(projects))
		for _, p := range projects {
			views = append(views, projectView{p.ID, p.WorkspaceID, p.Name, p.Active, p.Color})
		}
		return writeJSON(w, views)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWORKSPACE\tNAME\tACTIVE")
	for _, p := range projects {
		wsName := strconv.FormatInt(p.WorkspaceID, 10)
		if workspace, ok := ws.Workspace(p.WorkspaceID); ok {
			wsName = workspace.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", p.ID, wsName, p.Name, p.Active)
	}
	return tw.Flush()
}
