package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "toggl_entries"

var (
	apiRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Requests issued to the Toggl API by method, route and status code.",
	}, []string{"method", "route", "code"})
	apiLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Latency of Toggl API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	cacheFills = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refcache",
		Name:      "fills_total",
		Help:      "Reference cache fills by result.",
	}, []string{"result"})
	cachedProjects = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refcache",
		Name:      "projects",
		Help:      "Number of projects currently held by the reference cache.",
	})
	cacheStale = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refcache",
		Name:      "stale",
		Help:      "1 while the reference cache is invalidated and not yet refilled.",
	})
	missingRefs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolve",
		Name:      "missing_references_total",
		Help:      "Wire records that referenced an id absent from the reference cache.",
	}, []string{"kind"})
	syncRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Sync runs by result.",
	}, []string{"result"})
	lastSync = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful sync.",
	})
)

func init() {
	prometheus.MustRegister(apiRequests, apiLatency, cacheFills, cachedProjects, cacheStale, missingRefs, syncRuns, lastSync)
}

// RecordRequest counts one API round trip. code is 0 for network failures.
func RecordRequest(method, path string, code int, dur time.Duration) {
	route := Route(path)
	apiRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// RecordCacheFill counts a reference cache fill and updates the project gauge on success.
func RecordCacheFill(projects int, err error) {
	if err != nil {
		cacheFills.WithLabelValues("error").Inc()
		return
	}
	cacheFills.WithLabelValues("ok").Inc()
	cachedProjects.Set(float64(projects))
	cacheStale.Set(0)
}

// RecordCacheInvalidation marks the reference cache stale until the next fill.
func RecordCacheInvalidation() {
	cacheStale.Set(1)
}

// RecordMissingReference counts a failed resolution for the given kind.
func RecordMissingReference(kind string) {
	missingRefs.WithLabelValues(kind).Inc()
}

// RecordSync counts a sync run.
func RecordSync(ts time.Time, err error) {
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return
	}
	syncRuns.WithLabelValues("ok").Inc()
	lastSync.Set(float64(ts.Unix()))
}

// Route collapses numeric path segments so ids do not become label values.
// The query string is dropped.
func Route(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
