package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/migrate"
)

// Client implements ports.Sink by writing to MySQL tables.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	dsn, err := migrate.PrepareDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

const upsertEntry = `
INSERT INTO toggl_time_entries
  (id, guid, workspace_id, project_id, description, tags, billable, duronly, start, stop, duration_sec, at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  guid=VALUES(guid),
  workspace_id=VALUES(workspace_id),
  project_id=VALUES(project_id),
  description=VALUES(description),
  tags=VALUES(tags),
  billable=VALUES(billable),
  duronly=VALUES(duronly),
  start=VALUES(start),
  stop=VALUES(stop),
  duration_sec=VALUES(duration_sec),
  at=VALUES(at);
`

const upsertProject = `
INSERT INTO toggl_projects
  (id, workspace_id, name, active, color)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  name=VALUES(name),
  active=VALUES(active),
  color=VALUES(color);
`

// SyncEntries upserts entries in one transaction.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		args, err := entryArgs(e)
		if err != nil {
			return err
		}
		rows = append(rows, args)
	}
	if err := c.upsert(ctx, upsertEntry, rows); err != nil {
		return err
	}
	c.log.Info("mysql sink upserted entries", slog.Int("count", len(entries)))
	return nil
}

// SyncProjects upserts projects in one transaction.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, projectArgs(p))
	}
	if err := c.upsert(ctx, upsertProject, rows); err != nil {
		return err
	}
	c.log.Info("mysql sink upserted projects", slog.Int("count", len(projects)))
	return nil
}

func (c *Client) upsert(ctx context.Context, query string, rows [][]any) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// entryArgs orders the columns of upsertEntry. Running entries have a NULL
// stop and keep their negative duration.
func entryArgs(e domain.TimeEntry) ([]any, error) {
	if e.Workspace == nil {
		return nil, fmt.Errorf("mysql: time entry %d has no workspace", e.ID)
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	// Stored as JSON text for readability.
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	var project any
	if e.Project != nil {
		project = e.Project.ID
	}
	var stop any
	if e.Stop != nil {
		stop = e.Stop.UTC()
	}
	return []any{
		e.ID,
		e.GUID.String(),
		e.Workspace.ID,
		project,
		e.Description,
		string(tagsJSON),
		e.Billable,
		e.DurOnly,
		e.Start.UTC(),
		stop,
		e.DurationSec,
		e.At.UTC(),
	}, nil
}

func projectArgs(p domain.Project) []any {
	return []any{p.ID, p.WorkspaceID, p.Name, p.Active, p.Color}
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }
