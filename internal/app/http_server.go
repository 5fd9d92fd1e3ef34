package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/observability"
	"toggl-entries/internal/timerange"
	"toggl-entries/internal/usecase"
)

// HTTPServer returns a configured http.Server that exposes endpoints to
// trigger syncs and read entries.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: a.Routes(), ReadHeaderTimeout: 10 * time.Second}
	a.log.Info("http trigger server configured", slog.String("addr", addr))
	return srv
}

// Routes returns the handler behind HTTPServer.
func (a *App) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	// /sync?from=...&to=...&timeout=...
	r.HandleFunc("/sync", a.handleSync).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/time_entries/current", a.handleCurrent).Methods(http.MethodGet)
	r.HandleFunc("/time_entries/{id:[0-9]+}", a.handleEntry).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return loggingMiddleware(a.log, r)
}

// handleSync runs a sync of [from, to), defaulting to the last 24 hours.
func (a *App) handleSync(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromTime, toTime, err := timerange.Window(q.Get("from"), q.Get("to"), time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": err.Error()})
		return
	}

	ctx := r.Context()
	if tStr := q.Get("timeout"); tStr != "" {
		if d, err := time.ParseDuration(tStr); err == nil && d > 0 {
			var cancel func()
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
	}

	err = a.RunOnce(ctx, fromTime, toTime)
	body := map[string]any{
		"status": "ok",
		"from":   fromTime.Format(time.RFC3339),
		"to":     toTime.Format(time.RFC3339),
	}
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, usecase.ErrSyncRunning):
			status = http.StatusConflict
		case errors.Is(err, ErrSyncDisabled):
			status = http.StatusServiceUnavailable
		}
		body["status"] = "error"
		body["error"] = err.Error()
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (a *App) handleCurrent(w http.ResponseWriter, r *http.Request) {
	e, ok, err := a.entries.Current(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, NewEntryView(e))
}

func (a *App) handleEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "invalid id"})
		return
	}
	e, err := a.entries.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewEntryView(e))
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
	} else if domain.IsMissingReference(err) {
		status = http.StatusConflict
	}
	a.log.Warn("request failed", slog.String("error", err.Error()), slog.Int("status", status))
	writeJSON(w, status, map[string]any{"status": "error", "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs each request with its matched route and status.
// Ids are collapsed out of the route so log lines group per endpoint.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "http request",
			slog.String("method", r.Method),
			slog.String("route", observability.Route(r.URL.Path)),
			slog.Int("status", rec.status),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
