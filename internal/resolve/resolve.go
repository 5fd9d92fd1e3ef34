// Package resolve rehydrates wire time entries into domain entries whose
// workspace and project point at reference cache objects.
package resolve

import (
	"fmt"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/observability"
	"toggl-entries/internal/wire"
)

// Lookup finds cached entities by id. *refcache.Cache implements it.
type Lookup interface {
	Workspace(id int64) (*domain.Workspace, bool)
	Project(id int64) (*domain.Project, bool)
}

// Entry resolves one record. A record without a project (pid 0) resolves
// with a nil Project; any other unknown id yields *domain.MissingReferenceError.
func Entry(rec wire.TimeEntry, refs Lookup) (domain.TimeEntry, error) {
	ws, ok := refs.Workspace(rec.WID)
	if !ok {
		observability.RecordMissingReference(string(domain.KindWorkspace))
		return domain.TimeEntry{}, &domain.MissingReferenceError{Kind: domain.KindWorkspace, ID: rec.WID}
	}
	var project *domain.Project
	if rec.PID != 0 {
		p, ok := refs.Project(rec.PID)
		if !ok {
			observability.RecordMissingReference(string(domain.KindProject))
			return domain.TimeEntry{}, &domain.MissingReferenceError{Kind: domain.KindProject, ID: rec.PID}
		}
		project = p
	}

	entry := domain.TimeEntry{
		ID:          rec.ID,
		GUID:        rec.GUID,
		Workspace:   ws,
		Project:     project,
		Billable:    rec.Billable,
		Start:       rec.Start,
		DurationSec: rec.Duration,
		Description: rec.Description,
		DurOnly:     rec.DurOnly,
		At:          rec.At,
		UUID:        rec.UUID,
	}
	if rec.Stop != nil {
		stop := *rec.Stop
		entry.Stop = &stop
	}
	if rec.Tags != nil {
		entry.Tags = append([]string(nil), rec.Tags...)
	}
	return entry, nil
}

// Entries resolves records in order. It fails as a whole on the first
// unresolvable record.
func Entries(recs []wire.TimeEntry, refs Lookup) ([]domain.TimeEntry, error) {
	out := make([]domain.TimeEntry, 0, len(recs))
	for i, rec := range recs {
		e, err := Entry(rec, refs)
		if err != nil {
			return nil, fmt.Errorf("resolving time entry %d (index %d): %w", rec.ID, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
