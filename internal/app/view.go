package app

import (
	"time"

	"toggl-entries/internal/domain"
)

// EntryView is the JSON shape used by the trigger server and the CLI.
type EntryView struct {
	ID          int64      `json:"id"`
	GUID        string     `json:"guid"`
	WorkspaceID int64      `json:"workspace_id"`
	Workspace   string     `json:"workspace"`
	ProjectID   int64      `json:"project_id,omitempty"`
	Project     string     `json:"project,omitempty"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Billable    bool       `json:"billable"`
	DurOnly     bool       `json:"duronly"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop,omitempty"`
	DurationSec int64      `json:"duration"`
	Running     bool       `json:"running"`
	At          time.Time  `json:"at"`
}

func NewEntryView(e domain.TimeEntry) EntryView {
	v := EntryView{
		ID:          e.ID,
		GUID:        e.GUID.String(),
		Description: e.Description,
		Tags:        e.Tags,
		Billable:    e.Billable,
		DurOnly:     e.DurOnly,
		Start:       e.Start,
		Stop:        e.Stop,
		DurationSec: e.DurationSec,
		Running:     e.Running(),
		At:          e.At,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if e.Workspace != nil {
		v.WorkspaceID = e.Workspace.ID
		v.Workspace = e.Workspace.Name
	}
	if e.Project != nil {
		v.ProjectID = e.Project.ID
		v.Project = e.Project.Name
	}
	return v
}

// Elapsed returns the tracked duration, counting up to now for running entries.
func Elapsed(e domain.TimeEntry, now time.Time) time.Duration {
	if e.Running() {
		return now.Sub(e.Start).Truncate(time.Second)
	}
	return time.Duration(e.DurationSec) * time.Second
}
