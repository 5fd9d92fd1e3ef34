// Package wire holds the JSON shapes exchanged with the Toggl v8 API.
// Workspaces and projects appear here only as raw identifiers.
package wire

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is the {"data": ...} wrapper around list and detail responses.
// Data is a pointer so that `"data": null` can be told apart from a zero record.
type Envelope[T any] struct {
	Data *T `json:"data"`
}

// TimeEntry mirrors a v8 time entry record.
type TimeEntry struct {
	ID          int64      `json:"id"`
	GUID        uuid.UUID  `json:"guid"`
	WID         int64      `json:"wid"`
	PID         int64      `json:"pid,omitempty"`
	Billable    bool       `json:"billable"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop,omitempty"`
	Duration    int64      `json:"duration"` // negative while running
	Description string     `json:"description"`
	Tags        []string   `json:"tags,omitempty"`
	DurOnly     bool       `json:"duronly"`
	At          time.Time  `json:"at"`
	UUID        uuid.UUID  `json:"uuid"`
}

// StartRequest is the body of POST /time_entries/start.
type StartRequest struct {
	TimeEntry StartTimeEntry `json:"time_entry"`
}

type StartTimeEntry struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	PID         int64    `json:"pid"`
	CreatedWith string   `json:"created_with"`
}

// StartResponse is the inner record returned by start and stop calls.
type StartResponse struct {
	ID          int64     `json:"id"`
	PID         int64     `json:"pid"`
	WID         int64     `json:"wid"`
	Billable    bool      `json:"billable"`
	Start       time.Time `json:"start"`
	Tags        []string  `json:"tags"`
	Duration    int64     `json:"duration"`
	Description string    `json:"description"`
}

// UpdateRequest wraps a full record for PUT /time_entries/{id}.
type UpdateRequest struct {
	TimeEntry TimeEntry `json:"time_entry"`
}

// Me is the payload of GET /me; it carries the user's workspaces.
type Me struct {
	ID         int64       `json:"id"`
	Fullname   string      `json:"fullname"`
	Email      string      `json:"email"`
	Workspaces []Workspace `json:"workspaces"`
}

type Workspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID     int64     `json:"id"`
	WID    int64     `json:"wid"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
	Color  string    `json:"color"`
	CID    int64     `json:"cid,omitempty"`
	At     time.Time `json:"at"`
}
