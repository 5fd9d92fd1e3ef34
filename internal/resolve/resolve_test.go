package resolve

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/wire"
)

type table struct {
	workspaces map[int64]*domain.Workspace
	projects   map[int64]*domain.Project
}

func (t table) Workspace(id int64) (*domain.Workspace, bool) {
	w, ok := t.workspaces[id]
	return w, ok
}

func (t table) Project(id int64) (*domain.Project, bool) {
	p, ok := t.projects[id]
	return p, ok
}

func newTable() table {
	return table{
		workspaces: map[int64]*domain.Workspace{1: {ID: 1, Name: "Acme"}},
		projects:   map[int64]*domain.Project{10: {ID: 10, WorkspaceID: 1, Name: "Backend"}},
	}
}

func record() wire.TimeEntry {
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	return wire.TimeEntry{
		ID:          5,
		GUID:        uuid.MustParse("6f1c1d3e-4e0a-4b8c-9d3f-2a6b7c8d9e0f"),
		WID:         1,
		PID:         10,
		Start:       start,
		Duration:    -1,
		Description: "coding",
		Tags:        []string{"dev"},
		At:          start.Add(time.Minute),
		UUID:        uuid.MustParse("0b8f0e6a-7b71-4b0e-8f5c-3d1f2e4a5b6c"),
	}
}

func TestEntry_ResolvesRunningEntry(t *testing.T) {
	refs := newTable()
	e, err := Entry(record(), refs)
	require.NoError(t, err)

	assert.Equal(t, int64(5), e.ID)
	assert.Equal(t, int64(1), e.Workspace.ID)
	assert.Equal(t, int64(10), e.Project.ID)
	assert.Equal(t, int64(-1), e.DurationSec)
	assert.True(t, e.Running())
	assert.Equal(t, "coding", e.Description)
	assert.Nil(t, e.Stop)
	assert.Same(t, refs.workspaces[1], e.Workspace)
	assert.Same(t, refs.projects[10], e.Project)
}

func TestEntry_MissingProject(t *testing.T) {
	rec := record()
	rec.PID = 99

	e, err := Entry(rec, newTable())
	require.Error(t, err)
	var mr *domain.MissingReferenceError
	require.True(t, errors.As(err, &mr))
	assert.Equal(t, domain.KindProject, mr.Kind)
	assert.Equal(t, int64(99), mr.ID)
	assert.Equal(t, domain.TimeEntry{}, e)
}

func TestEntry_MissingWorkspace(t *testing.T) {
	rec := record()
	rec.WID = 2

	_, err := Entry(rec, newTable())
	var mr *domain.MissingReferenceError
	require.True(t, errors.As(err, &mr))
	assert.Equal(t, domain.KindWorkspace, mr.Kind)
	assert.Equal(t, int64(2), mr.ID)
}

func TestEntry_WithoutProject(t *testing.T) {
	rec := record()
	rec.PID = 0

	e, err := Entry(rec, newTable())
	require.NoError(t, err)
	assert.Nil(t, e.Project)
	assert.Equal(t, int64(0), e.Wire().PID)
}

func TestEntry_DoesNotAliasRecord(t *testing.T) {
	rec := record()
	stop := rec.Start.Add(time.Hour)
	rec.Stop = &stop

	e, err := Entry(rec, newTable())
	require.NoError(t, err)
	rec.Tags[0] = "changed"
	*rec.Stop = rec.Start

	assert.Equal(t, []string{"dev"}, e.Tags)
	assert.Equal(t, stop, *e.Stop)
}

func TestWireRoundTrip(t *testing.T) {
	refs := newTable()
	rec := record()
	stop := rec.Start.Add(90 * time.Minute)
	rec.Stop = &stop
	rec.Duration = 5400
	rec.DurOnly = true
	rec.Billable = true

	original, err := Entry(rec, refs)
	require.NoError(t, err)

	again, err := Entry(original.Wire(), refs)
	require.NoError(t, err)
	assert.Equal(t, original, again)
	assert.Same(t, original.Workspace, again.Workspace)
	assert.Same(t, original.Project, again.Project)
	assert.Equal(t, rec, original.Wire())
}

func TestEntries_PreservesOrder(t *testing.T) {
	a, b, c := record(), record(), record()
	a.ID, b.ID, c.ID = 3, 1, 2

	out, err := Entries([]wire.TimeEntry{a, b, c}, newTable())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{out[0].ID, out[1].ID, out[2].ID})
}

func TestEntries_AllOrNothing(t *testing.T) {
	good, bad := record(), record()
	bad.ID = 8
	bad.PID = 99

	out, err := Entries([]wire.TimeEntry{good, bad, good}, newTable())
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, domain.IsMissingReference(err))
	assert.Contains(t, err.Error(), "time entry 8")
}

func TestEntries_Empty(t *testing.T) {
	out, err := Entries(nil, newTable())
	require.NoError(t, err)
	assert.Empty(t, out)
}
