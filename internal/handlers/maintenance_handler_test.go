package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestCleanupHandler(t *testing.T) {
	cleaner := &mockCleaner{removed: 3}
	h := NewMaintenanceHandler(cleaner, 7, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.CleanupHandler(rec, httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["removed"])
	assert.Equal(t, float64(7), body["days_to_keep"])

	rec = httptest.NewRecorder()
	h.CleanupHandler(rec, httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup", strings.NewReader(`{"days":2}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{7, 2}, cleaner.days)
}

func TestCleanupHandler_Errors(t *testing.T) {
	cleaner := &mockCleaner{}
	h := NewMaintenanceHandler(cleaner, 7, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.CleanupHandler(rec, httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup", strings.NewReader(`{"days":0}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, cleaner.days)

	rec = httptest.NewRecorder()
	h.CleanupHandler(rec, httptest.NewRequest(http.MethodGet, "/api/maintenance/cleanup", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	cleaner.err = errors.New("permission denied")
	rec = httptest.NewRecorder()
	h.CleanupHandler(rec, httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
