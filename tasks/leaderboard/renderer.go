package leaderboard

import (
	"fmt"
	"strings"
	"time"

	"streak-bot/model"
)

const (
	DefaultTitle = "🏆 **Rossbased SR Tracker Leaderboard** 🏆"
	DefaultLimit = 10

	emptyBody       = "No streaks recorded yet. Join the leaderboard in the SR Tracker app!"
	timestampLayout = "1/2/2006, 3:04:05 PM"
)

var medals = []string{"🥇", "🥈", "🥉"}

const rankMarker = "🔢"

// Renderer turns resolved entries into the posted message body.
type Renderer struct {
	Title    string
	Limit    int
	Now      func() time.Time
	Location *time.Location
}

// NewRenderer returns a renderer with the standard title and a 10 entry cap.
func NewRenderer() *Renderer {
	return &Renderer{Title: DefaultTitle, Limit: DefaultLimit, Now: time.Now}
}

// Render keeps the backend order. An empty input gives the "no streaks" message.
func (r *Renderer) Render(entries []model.ResolvedEntry) string {
	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(emptyBody)
		return b.String()
	}

	if limit := r.Cap(); len(entries) > limit {
		entries = entries[:limit]
	}
	for i, e := range entries {
		fmt.Fprintf(&b, "%s %d. %s - %d days\n", marker(i), i+1, e.DisplayName, e.Streak)
	}
	fmt.Fprintf(&b, "\nUpdated on %s 🔥", r.now().Format(timestampLayout))
	return b.String()
}

// Cap is the number of entries a rendered board shows.
func (r *Renderer) Cap() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

func (r *Renderer) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	t := now()
	if r.Location != nil {
		t = t.In(r.Location)
	}
	return t
}

func marker(index int) string {
	if index < len(medals) {
		return medals[index]
	}
	return rankMarker
}
