package model

import (
	"encoding/json"
	"fmt"
)

// Entry is one leaderboard record as served by the tracker backend.
// Fields other than username and streak are kept in Extra untouched.
type Entry struct {
	Username string
	Streak   int
	Extra    map[string]json.RawMessage
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["username"]; ok {
		if err := json.Unmarshal(v, &e.Username); err != nil {
			return fmt.Errorf("username: %w", err)
		}
		delete(raw, "username")
	}
	if v, ok := raw["streak"]; ok {
		var streak float64
		if err := json.Unmarshal(v, &streak); err != nil {
			return fmt.Errorf("streak: %w", err)
		}
		e.Streak = int(streak)
		delete(raw, "streak")
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Extra)+2)
	for k, v := range e.Extra {
		out[k] = v
	}
	username, err := json.Marshal(e.Username)
	if err != nil {
		return nil, err
	}
	out["username"] = username
	out["streak"] = json.RawMessage(fmt.Sprintf("%d", e.Streak))
	return json.Marshal(out)
}

// ResolvedEntry is an Entry with the name it should be shown under.
type ResolvedEntry struct {
	Entry
	DisplayName string
}

// Member is a roster entry for one community member.
type Member struct {
	ID          string
	Username    string
	DisplayName string
}
