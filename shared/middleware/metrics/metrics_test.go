package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/research/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/research/{id}", "200"))

	req := httptest.NewRequest(http.MethodGet, "/research/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/research/{id}", "200"))
	assert.Equal(t, before+1, after, "parameterized routes collapse to one series")
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/missing", "404"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/missing", "404"))
	assert.Equal(t, before+1, after)
}

func TestMiddlewareInFlightReturnsToZero(t *testing.T) {
	var during float64
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(requestsInFlight)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(requestsInFlight))
}
