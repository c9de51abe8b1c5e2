package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), nil)
}

func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()
	require.NotNil(t, m.MutationsTotal)
	require.NotNil(t, m.FieldsTotal)
	require.NotNil(t, m.ExportsTotal)
	require.NotNil(t, m.ExportDuration)
	require.NotNil(t, m.ExportsStaleTotal)
	require.NotNil(t, m.FontFallbacksTotal)
	require.NotNil(t, m.PersistErrorsTotal)
	require.NotNil(t, m.HTTPRequestsTotal)
	require.NotNil(t, m.HTTPRequestDuration)
}

func TestRecordMutation(t *testing.T) {
	m := getTestMetrics()
	m.RecordMutation("update", true, nil)
	m.RecordMutation("update", false, nil)
	m.RecordMutation("update", false, errors.New("bad"))
	m.RecordMutation("update", true, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("update", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("update", "noop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("update", "rejected")))
}

func TestRecordExport(t *testing.T) {
	m := getTestMetrics()
	m.RecordExport(10*time.Millisecond, nil)
	m.RecordExport(time.Millisecond, errors.New("boom"))
	m.RecordStaleExport()
	m.RecordFontFallbacks(2)
	m.RecordFontFallbacks(0)
	m.SetFields(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsStaleTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FontFallbacksTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.FieldsTotal))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMutation("add", true, nil)
		m.SetFields(1)
		m.RecordExport(time.Second, nil)
		m.RecordStaleExport()
		m.RecordFontFallbacks(1)
		m.RecordPersistError("save")
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond)
	})
}

func TestRecordHTTPRequest(t *testing.T) {
	m := getTestMetrics()
	m.RecordHTTPRequest("GET", "/api/fields", "200", 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/fields", "200")))
}
