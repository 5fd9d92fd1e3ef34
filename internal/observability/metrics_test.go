package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	assert.Equal(t, "/time_entries", Route("/time_entries"))
	assert.Equal(t, "/time_entries", Route("/time_entries?start_date=2024-01-01T00:00:00Z"))
	assert.Equal(t, "/time_entries/{id}/stop", Route("/time_entries/42/stop"))
	assert.Equal(t, "/time_entries/current", Route("/time_entries/current"))
	assert.Equal(t, "/workspaces/{id}/projects", Route("/workspaces/7/projects"))
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(apiRequests.WithLabelValues("GET", "/time_entries/{id}", "404"))
	RecordRequest("GET", "/time_entries/9001", 404, 10*time.Millisecond)
	after := testutil.ToFloat64(apiRequests.WithLabelValues("GET", "/time_entries/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordCacheFill(t *testing.T) {
	RecordCacheFill(3, nil)
	assert.Equal(t, float64(3), testutil.ToFloat64(cachedProjects))

	before := testutil.ToFloat64(cacheFills.WithLabelValues("error"))
	RecordCacheFill(0, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(cacheFills.WithLabelValues("error")))
	assert.Equal(t, float64(3), testutil.ToFloat64(cachedProjects))
}

func TestRecordCacheInvalidation(t *testing.T) {
	RecordCacheInvalidation()
	assert.Equal(t, float64(1), testutil.ToFloat64(cacheStale))
	RecordCacheFill(2, nil)
	assert.Equal(t, float64(0), testutil.ToFloat64(cacheStale))
}

func TestRecordSync(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	RecordSync(ts, nil)
	assert.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastSync))
}
