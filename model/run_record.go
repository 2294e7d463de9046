package model

import "time"

// Run outcomes stored in the journal.
const (
	OutcomePosted  = "posted"
	OutcomeAborted = "aborted"
	OutcomeSkipped = "skipped"
	OutcomePanic   = "panic"
)

// RunRecord describes one execution of the leaderboard pipeline.
type RunRecord struct {
	ID         string    `db:"id" json:"id"`
	Trigger    string    `db:"triggered_by" json:"trigger"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
	Outcome    string    `db:"outcome" json:"outcome"`
	ErrorKind  string    `db:"error_kind" json:"error_kind,omitempty"`
	Error      string    `db:"error" json:"error,omitempty"`
	Entries    int       `db:"entries" json:"entries"`
	Deleted    int       `db:"deleted" json:"deleted"`
	MessageID  string    `db:"message_id" json:"message_id,omitempty"`
}

// Duration is how long the run took.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
