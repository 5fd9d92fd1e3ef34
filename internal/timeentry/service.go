// Package timeentry implements the Toggl v8 time entry operations on top of
// a transport and the reference cache.
package timeentry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/ports"
	"toggl-entries/internal/refcache"
	"toggl-entries/internal/resolve"
	"toggl-entries/internal/wire"
)

// DefaultCreatedWith identifies this client in start requests.
const DefaultCreatedWith = "toggl-entries"

// Service exposes list/start/stop/get/update/delete over time entries.
type Service struct {
	transport   ports.Transport
	cache       *refcache.Cache
	createdWith string
	log         *slog.Logger
}

// NewService builds a Service. An empty createdWith falls back to DefaultCreatedWith.
func NewService(transport ports.Transport, cache *refcache.Cache, createdWith string, log *slog.Logger) *Service {
	if createdWith == "" {
		createdWith = DefaultCreatedWith
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{transport: transport, cache: cache, createdWith: createdWith, log: log}
}

// Cache returns the reference cache entries are resolved against.
func (s *Service) Cache() *refcache.Cache { return s.cache }

// List returns all time entries the service reports by default.
func (s *Service) List(ctx context.Context) ([]domain.TimeEntry, error) {
	return s.ListRange(ctx, nil, nil)
}

// ListRange returns entries between start and end; either bound may be nil.
// Entries keep the order the service returned them in.
func (s *Service) ListRange(ctx context.Context, start, end *time.Time) ([]domain.TimeEntry, error) {
	refs, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	path := listPath(start, end)
	body, err := s.transport.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	recs, err := decodeList(path, body)
	if err != nil {
		return nil, err
	}
	entries, err := resolve.Entries(recs, refs)
	if err != nil {
		return nil, err
	}
	s.log.Debug("listed time entries", slog.String("path", path), slog.Int("count", len(entries)))
	return entries, nil
}

// Start starts a new running entry. The service stops any entry that is
// currently running before starting this one. project may be nil. The id of
// the started entry is returned.
func (s *Service) Start(ctx context.Context, description string, tags []string, project *domain.Project) (int64, error) {
	if tags == nil {
		tags = []string{}
	}
	req := wire.StartRequest{TimeEntry: wire.StartTimeEntry{
		Description: description,
		Tags:        tags,
		CreatedWith: s.createdWith,
	}}
	if project != nil {
		req.TimeEntry.PID = project.ID
	}
	path := startPath()
	body, err := s.transport.Do(ctx, http.MethodPost, path, req)
	if err != nil {
		return 0, err
	}
	started, err := decodeData[wire.StartResponse](path, body)
	if err != nil {
		return 0, err
	}
	if started == nil {
		return 0, &domain.DeserializationError{URL: path, Err: errors.New("empty start response")}
	}
	s.log.Info("started time entry", slog.Int64("id", started.ID), slog.Int64("pid", started.PID))
	return started.ID, nil
}

// Stop stops the given running entry.
func (s *Service) Stop(ctx context.Context, entry domain.TimeEntry) error {
	path := stopPath(entry.ID)
	body, err := s.transport.Do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	stopped, err := decodeData[wire.StartResponse](path, body)
	if err != nil {
		return err
	}
	if stopped == nil {
		return fmt.Errorf("stopping time entry %d: %w", entry.ID, domain.ErrNotFound)
	}
	s.log.Info("stopped time entry", slog.Int64("id", entry.ID), slog.Int64("duration", stopped.Duration))
	return nil
}

// Get returns a single entry by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.TimeEntry, error) {
	refs, err := s.cache.Snapshot(ctx)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	path := entryPath(id)
	body, err := s.transport.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	rec, err := decodeData[wire.TimeEntry](path, body)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if rec == nil {
		return domain.TimeEntry{}, fmt.Errorf("time entry %d: %w", id, domain.ErrNotFound)
	}
	return resolve.Entry(*rec, refs)
}

// Current returns the running entry. ok is false when nothing is running.
func (s *Service) Current(ctx context.Context) (entry domain.TimeEntry, ok bool, err error) {
	refs, err := s.cache.Snapshot(ctx)
	if err != nil {
		return domain.TimeEntry{}, false, err
	}
	path := currentPath()
	body, err := s.transport.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.TimeEntry{}, false, err
	}
	rec, err := decodeData[wire.TimeEntry](path, body)
	if err != nil {
		return domain.TimeEntry{}, false, err
	}
	if rec == nil {
		return domain.TimeEntry{}, false, nil
	}
	entry, err = resolve.Entry(*rec, refs)
	if err != nil {
		return domain.TimeEntry{}, false, err
	}
	return entry, true, nil
}

// Update sends the full entry to the service.
func (s *Service) Update(ctx context.Context, entry domain.TimeEntry) error {
	req := wire.UpdateRequest{TimeEntry: entry.Wire()}
	if _, err := s.transport.Do(ctx, http.MethodPut, entryPath(entry.ID), req); err != nil {
		return err
	}
	s.log.Info("updated time entry", slog.Int64("id", entry.ID))
	return nil
}

// Delete removes the entry.
func (s *Service) Delete(ctx context.Context, entry domain.TimeEntry) error {
	if _, err := s.transport.Do(ctx, http.MethodDelete, entryPath(entry.ID), nil); err != nil {
		return err
	}
	s.log.Info("deleted time entry", slog.Int64("id", entry.ID))
	return nil
}

// decodeData unwraps {"data": T}. A nil result means the service answered
// with no record: an empty body, `null`, or `{"data": null}`. An object
// without a data key is a DeserializationError.
func decodeData[T any](path string, body []byte) (*T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &domain.DeserializationError{URL: path, Err: err}
	}
	raw, ok := env["data"]
	if !ok {
		return nil, &domain.DeserializationError{URL: path, Err: errors.New(`missing "data" key`)}
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &domain.DeserializationError{URL: path, Err: err}
	}
	return &v, nil
}

// decodeList accepts both the enveloped and the bare array form.
func decodeList(path string, body []byte) ([]wire.TimeEntry, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var recs []wire.TimeEntry
		if err := json.Unmarshal(body, &recs); err != nil {
			return nil, &domain.DeserializationError{URL: path, Err: err}
		}
		return recs, nil
	}
	if len(body) == 0 {
		return nil, &domain.DeserializationError{URL: path, Err: errors.New("empty body")}
	}
	recs, err := decodeData[[]wire.TimeEntry](path, body)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, nil
	}
	return *recs, nil
}
