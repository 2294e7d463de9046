package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"streak-bot/model"
)

const runColumns = "id, triggered_by, started_at, finished_at, outcome, error_kind, error, entries, deleted, message_id"

// InitRunDB opens the run journal and ensures the table exists.
func InitRunDB(dbPath string) (*sqlx.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to run database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	schema := `
    CREATE TABLE IF NOT EXISTS leaderboard_runs (
        id TEXT NOT NULL PRIMARY KEY,
        triggered_by TEXT NOT NULL,
        started_at DATETIME NOT NULL,
        finished_at DATETIME NOT NULL,
        outcome TEXT NOT NULL,
        error_kind TEXT NOT NULL DEFAULT '',
        error TEXT NOT NULL DEFAULT '',
        entries INTEGER NOT NULL DEFAULT 0,
        deleted INTEGER NOT NULL DEFAULT 0,
        message_id TEXT NOT NULL DEFAULT ''
    );
    CREATE INDEX IF NOT EXISTS idx_leaderboard_runs_finished ON leaderboard_runs (finished_at);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create leaderboard_runs table: %w", err)
	}
	return db, nil
}

// InsertRun stores a run record. Times are stored in UTC so that the
// text ordering of the columns matches time ordering.
func InsertRun(db *sqlx.DB, rec model.RunRecord) error {
	rec.StartedAt = rec.StartedAt.UTC()
	rec.FinishedAt = rec.FinishedAt.UTC()
	query := `INSERT INTO leaderboard_runs (` + runColumns + `)
              VALUES (:id, :triggered_by, :started_at, :finished_at, :outcome, :error_kind, :error, :entries, :deleted, :message_id)`
	if _, err := db.NamedExec(query, rec); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rec.ID, err)
	}
	return nil
}

// LatestRun returns the most recently finished run that was not skipped,
// or nil when there is none.
func LatestRun(db *sqlx.DB) (*model.RunRecord, error) {
	var rec model.RunRecord
	err := db.Get(&rec, "SELECT "+runColumns+" FROM leaderboard_runs WHERE outcome != ? ORDER BY finished_at DESC LIMIT 1",
		model.OutcomeSkipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &rec, nil
}

// RecentRuns returns up to limit runs, newest first.
func RecentRuns(db *sqlx.DB, limit int) ([]model.RunRecord, error) {
	var runs []model.RunRecord
	err := db.Select(&runs, "SELECT "+runColumns+" FROM leaderboard_runs ORDER BY finished_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	return runs, nil
}

// PruneRuns keeps the newest keep runs and deletes the rest.
func PruneRuns(db *sqlx.DB, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	result, err := db.Exec(`DELETE FROM leaderboard_runs WHERE id NOT IN (
        SELECT id FROM leaderboard_runs ORDER BY finished_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected while pruning: %w", err)
	}
	return n, nil
}

// RunJournal records runs and keeps the table bounded.
type RunJournal struct {
	DB   *sqlx.DB
	Keep int
}

func (j *RunJournal) Record(rec model.RunRecord) error {
	if err := InsertRun(j.DB, rec); err != nil {
		return err
	}
	_, err := PruneRuns(j.DB, j.Keep)
	return err
}

func (j *RunJournal) Latest() (*model.RunRecord, error) {
	return LatestRun(j.DB)
}
