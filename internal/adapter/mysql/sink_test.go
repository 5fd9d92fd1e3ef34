package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toggl-entries/internal/domain"
)

func TestEntryArgs(t *testing.T) {
	start := time.Date(2024, 5, 6, 11, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	stop := start.Add(time.Hour)
	guid := uuid.MustParse("6f1c1d3e-4e0a-4b8c-9d3f-2a6b7c8d9e0f")
	e := domain.TimeEntry{
		ID:          1,
		GUID:        guid,
		Workspace:   &domain.Workspace{ID: 2},
		Project:     &domain.Project{ID: 3},
		Description: "dev",
		Tags:        []string{"a", "b"},
		Start:       start,
		Stop:        &stop,
		DurationSec: 3600,
		At:          stop,
	}

	args, err := entryArgs(e)
	require.NoError(t, err)
	require.Len(t, args, 12)
	assert.Equal(t, guid.String(), args[1])
	assert.Equal(t, int64(2), args[2])
	assert.Equal(t, int64(3), args[3])
	assert.Equal(t, `["a","b"]`, args[5])
	assert.Equal(t, time.UTC, args[8].(time.Time).Location())
	assert.Equal(t, stop.UTC(), args[9])
}

func TestEntryArgs_RunningWithoutProject(t *testing.T) {
	args, err := entryArgs(domain.TimeEntry{ID: 1, Workspace: &domain.Workspace{ID: 2}, DurationSec: -1})
	require.NoError(t, err)
	assert.Nil(t, args[3])
	assert.Equal(t, `[]`, args[5])
	assert.Nil(t, args[9])
	assert.Equal(t, int64(-1), args[10])
}

func TestEntryArgs_NoWorkspace(t *testing.T) {
	_, err := entryArgs(domain.TimeEntry{ID: 9})
	assert.Error(t, err)
}

func TestProjectArgs(t *testing.T) {
	assert.Equal(t, []any{int64(3), int64(2), "Backend", true, "5"},
		projectArgs(domain.Project{ID: 3, WorkspaceID: 2, Name: "Backend", Active: true, Color: "5"}))
}

func TestNewClient_RequiresDSN(t *testing.T) {
	_, err := NewClient(context.Background(), "", nil)
	assert.Error(t, err)
}
