package database

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streak-bot/model"
)

func openTestDB(t *testing.T) *RunJournal {
	t.Helper()
	db, err := InitRunDB(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &RunJournal{DB: db, Keep: 3}
}

func runAt(i int, base time.Time) model.RunRecord {
	start := base.Add(time.Duration(i) * time.Minute)
	return model.RunRecord{
		ID:         fmt.Sprintf("run-%d", i),
		Trigger:    "schedule",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Outcome:    model.OutcomePosted,
		Entries:    i,
		Deleted:    1,
		MessageID:  fmt.Sprintf("msg-%d", i),
	}
}

func TestLatestRunEmpty(t *testing.T) {
	j := openTestDB(t)

	rec, err := j.Latest()

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRecordAndLatest(t *testing.T) {
	j := openTestDB(t)
	base := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.Record(runAt(1, base)))
	failed := runAt(2, base)
	failed.Outcome = model.OutcomeAborted
	failed.ErrorKind = string(model.FetchFailed)
	failed.Error = "backend responded 500"
	failed.MessageID = ""
	require.NoError(t, j.Record(failed))

	rec, err := j.Latest()

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "run-2", rec.ID)
	assert.Equal(t, model.OutcomeAborted, rec.Outcome)
	assert.Equal(t, "fetch_failed", rec.ErrorKind)
	assert.Equal(t, "schedule", rec.Trigger)
	assert.True(t, rec.StartedAt.Equal(failed.StartedAt))
	assert.Equal(t, 2*time.Second, rec.Duration())
}

func TestLatestIgnoresSkippedRuns(t *testing.T) {
	j := openTestDB(t)
	base := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	posted := model.RunRecord{
		ID:         "posted",
		Trigger:    "schedule",
		StartedAt:  base,
		FinishedAt: base.Add(30 * time.Second),
		Outcome:    model.OutcomePosted,
	}
	skipped := model.RunRecord{
		ID:         "skipped",
		Trigger:    "command:42",
		StartedAt:  base.Add(5 * time.Second),
		FinishedAt: base.Add(5 * time.Second),
		Outcome:    model.OutcomeSkipped,
	}
	require.NoError(t, j.Record(skipped))
	require.NoError(t, j.Record(posted))

	rec, err := j.Latest()

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "posted", rec.ID)
}

func TestLatestOrdersAcrossZones(t *testing.T) {
	j := openTestDB(t)
	east := time.FixedZone("UTC+5", 5*60*60)
	west := time.FixedZone("UTC-5", -5*60*60)
	earlier := time.Date(2024, 11, 3, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	first := runAt(1, earlier)
	first.StartedAt, first.FinishedAt = earlier.In(east), earlier.In(east)
	second := runAt(2, later)
	second.StartedAt, second.FinishedAt = later.In(west), later.In(west)
	require.NoError(t, j.Record(first))
	require.NoError(t, j.Record(second))

	rec, err := j.Latest()

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "run-2", rec.ID)
	assert.True(t, rec.FinishedAt.Equal(later))
}

func TestRecordPrunesOldRuns(t *testing.T) {
	j := openTestDB(t)
	base := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		require.NoError(t, j.Record(runAt(i, base)))
	}

	runs, err := RecentRuns(j.DB, 10)

	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-5", runs[0].ID)
	assert.Equal(t, "run-3", runs[2].ID)
}

func TestPruneRunsDisabled(t *testing.T) {
	j := openTestDB(t)
	require.NoError(t, InsertRun(j.DB, runAt(1, time.Now())))

	n, err := PruneRuns(j.DB, 0)

	require.NoError(t, err)
	assert.Zero(t, n)
}
