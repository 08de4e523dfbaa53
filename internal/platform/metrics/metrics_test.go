package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/taskflow-api/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func TestObserveRequest(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRequest(http.MethodGet, "/api/tasks", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/tasks", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "", http.StatusNotFound, time.Millisecond)

	counter := findFamily(t, reg, "taskflow_http_requests_total")
	require.Len(t, counter.GetMetric(), 2)

	byRoute := map[string]float64{}
	for _, metric := range counter.GetMetric() {
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		byRoute[labels["method"]+" "+labels["route"]+" "+labels["status"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, byRoute["GET /api/tasks 200"])
	assert.Equal(t, 1.0, byRoute["POST unmatched 404"])

	histogram := findFamily(t, reg, "taskflow_http_request_duration_seconds")
	var samples uint64
	for _, metric := range histogram.GetMetric() {
		samples += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func TestRecordAuthFailure(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.RecordAuthFailure(metrics.ReasonMissingToken)
	m.RecordAuthFailure(metrics.ReasonMissingToken)
	m.RecordAuthFailure(metrics.ReasonForbidden)

	family := findFamily(t, reg, "taskflow_auth_failures_total")
	assert.Len(t, family.GetMetric(), 2)

	total := 0.0
	for _, metric := range family.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)
}

func TestHandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	m := metrics.New(nil)
	m.ObserveRequest(http.MethodDelete, "/api/tasks/{id}", http.StatusNoContent, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `taskflow_http_requests_total{method="DELETE",route="/api/tasks/{id}",status="204"} 1`)
	assert.NotNil(t, m.Registry())
}
