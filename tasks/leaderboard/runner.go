package leaderboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"streak-bot/model"
	"streak-bot/utils"
)

// FetchWarning is posted when the backend cannot be reached and warnings are enabled.
const FetchWarning = "⚠️ Error fetching leaderboard data. Please try again later."

// Locator checks that the target community and channel exist.
type Locator interface {
	FindGuild(ctx context.Context, guildID string) error
	FindChannel(ctx context.Context, guildID, channelID string) error
}

// Journal stores run records.
type Journal interface {
	Record(rec model.RunRecord) error
}

// Notifier is told about runs that did not post.
type Notifier interface {
	RunFailed(rec model.RunRecord)
}

// Runner executes the fetch, resolve, render, publish pipeline.
type Runner struct {
	GuildID            string
	ChannelID          string
	SelfID             func() string
	NotifyFetchFailure bool

	Locator   Locator
	Fetcher   Source
	Resolver  *Resolver
	Renderer  *Renderer
	Publisher *Publisher
	Journal   Journal
	Notifier  Notifier

	running atomic.Bool
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run executes one pipeline pass. A call made while another pass is in
// progress returns immediately with an OutcomeSkipped record.
func (r *Runner) Run(ctx context.Context, trigger string) (rec model.RunRecord) {
	rec = model.RunRecord{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	logger := utils.Logger.With("run", rec.ID[:8], "trigger", trigger)

	if !r.running.CompareAndSwap(false, true) {
		logger.Warn("leaderboard run already in progress, skipping")
		rec.Outcome = model.OutcomeSkipped
		rec.FinishedAt = time.Now()
		r.record(rec)
		return rec
	}
	defer r.running.Store(false)

	defer func() {
		if p := recover(); p != nil {
			logger.Error("leaderboard run panicked", "panic", p)
			rec.Outcome = model.OutcomePanic
			rec.Error = fmt.Sprint(p)
			rec.FinishedAt = time.Now()
			r.finish(rec)
		}
	}()

	logger.Info("starting leaderboard update")
	err := r.run(ctx, &rec)
	rec.FinishedAt = time.Now()
	if err != nil {
		rec.Outcome = model.OutcomeAborted
		rec.ErrorKind = string(model.KindOf(err))
		rec.Error = err.Error()
		logger.Error("leaderboard update failed", "kind", rec.ErrorKind, "err", err)
	} else {
		rec.Outcome = model.OutcomePosted
		logger.Info("leaderboard updated", "entries", rec.Entries, "deleted", rec.Deleted, "message", rec.MessageID, "took", rec.Duration())
	}
	r.finish(rec)
	return rec
}

func (r *Runner) run(ctx context.Context, rec *model.RunRecord) error {
	if err := r.Locator.FindGuild(ctx, r.GuildID); err != nil {
		return model.NewRunError(model.CommunityNotFound, "find guild "+r.GuildID, err)
	}
	if err := r.Locator.FindChannel(ctx, r.GuildID, r.ChannelID); err != nil {
		return model.NewRunError(model.ChannelNotFound, "find channel "+r.ChannelID, err)
	}

	entries, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		if r.NotifyFetchFailure {
			if _, sendErr := r.Publisher.Channel.Send(ctx, r.ChannelID, FetchWarning); sendErr != nil {
				utils.Logger.Warn("could not post fetch warning", "channel", r.ChannelID, "err", sendErr)
			}
		}
		return err
	}
	rec.Entries = len(entries)
	utils.Logger.Debug("fetched leaderboard data", "entries", len(entries))

	shown := entries
	if n := r.Renderer.Cap(); len(shown) > n {
		shown = shown[:n]
	}
	resolved := r.Resolver.Resolve(ctx, shown)
	content := r.Renderer.Render(resolved)

	selfID := ""
	if r.SelfID != nil {
		selfID = r.SelfID()
	}
	res, err := r.Publisher.Publish(ctx, r.ChannelID, selfID, content)
	rec.Deleted = res.Deleted
	rec.MessageID = res.MessageID
	return err
}

func (r *Runner) finish(rec model.RunRecord) {
	r.record(rec)
	if rec.Outcome != model.OutcomePosted && r.Notifier != nil {
		r.Notifier.RunFailed(rec)
	}
}

func (r *Runner) record(rec model.RunRecord) {
	if r.Journal == nil {
		return
	}
	if err := r.Journal.Record(rec); err != nil {
		utils.Logger.Warn("could not record leaderboard run", "run", rec.ID, "err", err)
	}
}
