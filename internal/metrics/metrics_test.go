package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderObserve(t *testing.T) {
	r := NewRecorder()

	r.Observe("create", "success", time.Now())
	r.Observe("create", "success", time.Now())
	r.Observe("create", "duplicate_title", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("create", "duplicate_title")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.Observe("list", "success", time.Now()) })
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.Observe("delete", "not_found", time.Now())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `proposal_operations_total{operation="delete",outcome="not_found"} 1`), body)
	assert.Contains(t, body, "proposal_operation_duration_seconds")
}
