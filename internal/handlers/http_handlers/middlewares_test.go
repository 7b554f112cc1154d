package http_handlers

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLabelByRoutePattern(t *testing.T) {
	env := newTestEnv(100)

	// distinct order numbers must all land on the one template series
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/orders/{number}", "404")
	before := testutil.ToFloat64(counter)

	for _, number := range []string{"ORD-20260830-AAAAAA", "ORD-20260830-BBBBBB", "ORD-20260830-CCCCCC"} {
		rec, _ := env.do(t, http.MethodGet, "/api/orders/"+number, nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestMetricsNoRawPathSeries(t *testing.T) {
	env := newTestEnv(100)
	env.seedProduct("prod-42", "Silk Saree", 4999)

	rec, _ := env.do(t, http.MethodGet, "/api/products/prod-42", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/products/prod-42", "200")
	assert.Zero(t, testutil.ToFloat64(raw))

	templated := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/products/{id}", "200")
	assert.GreaterOrEqual(t, testutil.ToFloat64(templated), float64(1))
}
