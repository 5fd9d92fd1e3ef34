package domain

// Workspace represents a Toggl workspace held by the reference cache.
type Workspace struct {
	ID   int64
	Name string
}

// Project represents a Toggl project held by the reference cache.
type Project struct {
	ID          int64
	WorkspaceID int64
	Name        string
	Active      bool
	Color       string
}
