package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsRecordsNothing(t *testing.T) {
	t.Parallel()

	var m *Metrics

	assert.NotPanics(t, func() {
		m.ParseFinished(ResultOK, 10, 1, 1)
	})
}

func TestParseFinished(t *testing.T) {
	t.Parallel()

	m := New()

	m.ParseFinished(ResultOK, 10, 2, 3)
	m.ParseFinished(ResultMalformedTimestamp, 5, 7, 7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.parses.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parses.WithLabelValues(ResultMalformedTimestamp)))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.lines))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.commits))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.files))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ParseFinished(ResultOK, 1, 1, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cvschanges_parses_total{result="ok"} 1`)
}
