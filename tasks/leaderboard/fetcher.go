package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"streak-bot/model"
	"streak-bot/utils"
)

// BackendURL is the tracker endpoint serving the streak leaderboard.
const BackendURL = "https://sr-tracker-backend.onrender.com/api/streaks"

// maxErrorBody caps how much of a failed response body is kept for logging.
const maxErrorBody = 512

// Source yields the current leaderboard.
type Source interface {
	Fetch(ctx context.Context) ([]model.Entry, error)
}

// Fetcher downloads the leaderboard from the tracker backend.
type Fetcher struct {
	URL    string
	Client *http.Client
}

// NewFetcher returns a fetcher for url using the shared HTTP client.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{URL: url, Client: utils.GlobalHTTPClient}
}

// Fetch performs a single GET. No retry happens here; the next tick retries.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, model.NewRunError(model.FetchFailed, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "streak-bot/1.0")

	client := f.Client
	if client == nil {
		client = utils.GlobalHTTPClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, model.NewRunError(model.FetchFailed, "get leaderboard", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, model.NewRunError(model.FetchFailed, "get leaderboard",
			fmt.Errorf("backend responded %s: %s", resp.Status, string(body)))
	}

	var entries []model.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, model.NewRunError(model.FetchFailed, "decode leaderboard", err)
	}
	kept := make([]model.Entry, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(strings.TrimPrefix(e.Username, "@")) == "" {
			utils.Logger.Warn("skipping leaderboard entry without username", "position", i+1, "streak", e.Streak)
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}
