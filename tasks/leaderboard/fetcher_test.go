package leaderboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streak-bot/model"
	"streak-bot/utils"
)

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSkipsEntriesWithoutUsername(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[null,{"streak":9},{"username":"@","streak":4},{"username":"  ","streak":2},{"username":"carol","streak":1}]`))
	})

	entries, err := NewFetcher(srv.URL).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "carol", entries[0].Username)
}

func TestFetchDecodesEntries(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`[{"username":"@alice","streak":5,"rank":1},{"username":"bob","streak":3}]`))
	})

	entries, err := NewFetcher(srv.URL).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "@alice", entries[0].Username)
	assert.Equal(t, 5, entries[0].Streak)
	assert.JSONEq(t, "1", string(entries[0].Extra["rank"]))
	assert.Equal(t, "bob", entries[1].Username)
	assert.Nil(t, entries[1].Extra)
}

func TestFetchEmptyAndNull(t *testing.T) {
	for _, body := range []string{"[]", "null"} {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		entries, err := NewFetcher(srv.URL).Fetch(context.Background())

		require.NoError(t, err, body)
		assert.NotNil(t, entries, body)
		assert.Empty(t, entries, body)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database offline", http.StatusInternalServerError)
	})

	_, err := NewFetcher(srv.URL).Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, model.FetchFailed, model.KindOf(err))
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database offline")
}

func TestFetchTimeout(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	f := &Fetcher{URL: srv.URL, Client: utils.NewHTTPClient(50 * time.Millisecond)}

	_, err := f.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, model.FetchFailed, model.KindOf(err))
}

func TestFetchMalformedJSON(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := NewFetcher(srv.URL).Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, model.FetchFailed, model.KindOf(err))
}
