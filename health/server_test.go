package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streak-bot/model"
)

type stubStatus struct {
	ready bool
	last  *model.RunRecord
}

func (s stubStatus) IsReady() bool                      { return s.ready }
func (s stubStatus) RosterSize() int                    { return 12 }
func (s stubStatus) LastRun() (*model.RunRecord, error) { return s.last, nil }

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(stubStatus{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestStatusReady(t *testing.T) {
	last := &model.RunRecord{ID: "r1", Outcome: model.OutcomePosted, Entries: 3}
	rr := httptest.NewRecorder()
	NewRouter(stubStatus{ready: true, last: last}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body statusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Ready)
	assert.Equal(t, 12, body.RosterSize)
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "r1", body.LastRun.ID)
}

func TestStatusNotReady(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(stubStatus{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"last_run":null`)
}

func TestMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(stubStatus{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
