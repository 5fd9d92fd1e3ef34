package domain

import (
	"time"

	"github.com/google/uuid"

	"toggl-entries/internal/wire"
)

// TimeEntry represents a Toggl time entry with its workspace and project
// resolved against the reference cache. Workspace and Project point at the
// cached objects; they are shared, never copied. Project is nil for entries
// filed without a project.
type TimeEntry struct {
	ID          int64
	GUID        uuid.UUID
	Workspace   *Workspace
	Project     *Project
	Billable    bool
	Start       time.Time
	Stop        *time.Time
	DurationSec int64 // Negative means running in Toggl API semantics
	Description string
	Tags        []string
	DurOnly     bool
	At          time.Time // Last update timestamp from Toggl
	UUID        uuid.UUID
}

// Running reports whether the entry is still being tracked.
func (t TimeEntry) Running() bool { return t.DurationSec < 0 }

// Wire converts the entry back to its flat wire form, substituting the
// identifiers of the resolved workspace and project.
func (t TimeEntry) Wire() wire.TimeEntry {
	w := wire.TimeEntry{
		ID:          t.ID,
		GUID:        t.GUID,
		Billable:    t.Billable,
		Start:       t.Start,
		Duration:    t.DurationSec,
		Description: t.Description,
		DurOnly:     t.DurOnly,
		At:          t.At,
		UUID:        t.UUID,
	}
	if t.Workspace != nil {
		w.WID = t.Workspace.ID
	}
	if t.Project != nil {
		w.PID = t.Project.ID
	}
	if t.Stop != nil {
		stop := *t.Stop
		w.Stop = &stop
	}
	if t.Tags != nil {
		w.Tags = append([]string(nil), t.Tags...)
	}
	return w
}
