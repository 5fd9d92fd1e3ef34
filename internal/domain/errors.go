package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the service has no entry for the addressed id.
var ErrNotFound = errors.New("toggl: time entry not found")

// RefKind names the kind of entity a wire record refers to.
type RefKind string

const (
	KindWorkspace RefKind = "workspace"
	KindProject   RefKind = "project"
)

// MissingReferenceError reports a wire record whose workspace or project id
// is not present in the reference cache.
type MissingReferenceError struct {
	Kind RefKind
	ID   int64
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("toggl: %s %d not found in reference cache", e.Kind, e.ID)
}

// TransportError is a network failure (StatusCode 0) or a non-2xx answer.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("toggl: %s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("toggl: %s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("toggl: %s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DeserializationError reports a response body that does not match the
// expected wire shape.
type DeserializationError struct {
	URL string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("toggl: decoding response of %s: %v", e.URL, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// IsMissingReference reports whether err carries a MissingReferenceError.
func IsMissingReference(err error) bool {
	var mr *MissingReferenceError
	return errors.As(err, &mr)
}
