package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePrediction(t *testing.T) {
	m := New()
	m.ObservePrediction("REAL", 0.87)
	m.ObservePrediction("REAL", 0.91)
	m.ObservePrediction("FAKE", 0.66)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("REAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("FAKE")))
}

func TestObserveCache(t *testing.T) {
	m := New()
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Cache.WithLabelValues("miss")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePrediction("REAL", 1)
		m.ObserveCache(true)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObservePrediction("FAKE", 0.75)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fakenews_predictions_total{prediction="FAKE"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
