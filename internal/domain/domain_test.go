package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEntry_Running(t *testing.T) {
	assert.True(t, TimeEntry{DurationSec: -1714986000}.Running())
	assert.False(t, TimeEntry{DurationSec: 0}.Running())
	assert.False(t, TimeEntry{DurationSec: 3600}.Running())
}

func TestTimeEntry_WireSubstitutesIDs(t *testing.T) {
	stop := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	e := TimeEntry{
		ID:          5,
		Workspace:   &Workspace{ID: 1},
		Project:     &Project{ID: 10, WorkspaceID: 1},
		Stop:        &stop,
		DurationSec: -1,
		Tags:        []string{"a"},
	}
	w := e.Wire()
	assert.Equal(t, int64(1), w.WID)
	assert.Equal(t, int64(10), w.PID)
	assert.Equal(t, int64(-1), w.Duration)

	// The wire form owns its stop and tags.
	w.Tags[0] = "b"
	*w.Stop = stop.Add(time.Hour)
	assert.Equal(t, "a", e.Tags[0])
	assert.Equal(t, stop, *e.Stop)
}

func TestTimeEntry_WireWithoutProject(t *testing.T) {
	w := TimeEntry{ID: 1, Workspace: &Workspace{ID: 3}}.Wire()
	assert.Equal(t, int64(0), w.PID)
	assert.Nil(t, w.Stop)
	assert.Nil(t, w.Tags)
}

func TestErrors(t *testing.T) {
	err := fmt.Errorf("resolving: %w", &MissingReferenceError{Kind: KindProject, ID: 99})
	assert.True(t, IsMissingReference(err))
	assert.EqualError(t, err, "resolving: toggl: project 99 not found in reference cache")
	assert.False(t, IsMissingReference(ErrNotFound))

	notFound := &TransportError{Method: "GET", URL: "/time_entries/1", StatusCode: 404, Err: ErrNotFound}
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.Contains(t, notFound.Error(), "404")

	netErr := &TransportError{Method: "GET", URL: "/me", Err: errors.New("connection refused")}
	assert.Equal(t, "toggl: GET /me: connection refused", netErr.Error())

	var de *DeserializationError
	require.ErrorAs(t, fmt.Errorf("x: %w", &DeserializationError{URL: "/me", Err: errors.New("eof")}), &de)
	assert.Equal(t, "/me", de.URL)
}
