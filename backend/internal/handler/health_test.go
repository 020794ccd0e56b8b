package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldnotes-dev/fieldnotes/shared/config"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping() error { return m.err }

func TestHealthOk(t *testing.T) {
	h := New(nil, nil, nil, nil, nil, nil, &mockPinger{}, &config.Public{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthDegradedOnDbFailure(t *testing.T) {
	h := New(nil, nil, nil, nil, nil, nil, &mockPinger{err: assert.AnError}, &config.Public{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}
