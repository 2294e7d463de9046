package leaderboard

import (
	"context"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"streak-bot/model"
	"streak-bot/utils"
)

// LookbackLimit is how many recent channel messages are checked for old posts.
const LookbackLimit = 10

// Message is the part of a channel message the publisher cares about.
type Message struct {
	ID       string
	AuthorID string
}

// Channel is the chat platform surface used to clean up and post.
type Channel interface {
	Messages(ctx context.Context, channelID string, limit int) ([]Message, error)
	Delete(ctx context.Context, channelID, messageID string) error
	Send(ctx context.Context, channelID, content string) (string, error)
}

// PublishResult summarises one publish.
type PublishResult struct {
	Deleted        int
	DeleteFailures int
	MessageID      string
}

// Publisher removes the bot's previous posts and sends the new one.
type Publisher struct {
	Channel Channel
}

// Publish is best effort on cleanup: delete failures are logged and the new
// message is sent regardless. Only a failed send is returned as an error.
func (p *Publisher) Publish(ctx context.Context, channelID, selfID, content string) (PublishResult, error) {
	var res PublishResult

	deleted, failed := p.cleanup(ctx, channelID, selfID)
	res.Deleted = deleted
	res.DeleteFailures = failed

	id, err := p.Channel.Send(ctx, channelID, content)
	if err != nil {
		return res, model.NewRunError(model.SendFailed, "send leaderboard", err)
	}
	res.MessageID = id
	return res, nil
}

func (p *Publisher) cleanup(ctx context.Context, channelID, selfID string) (deleted, failed int) {
	msgs, err := p.Channel.Messages(ctx, channelID, LookbackLimit)
	if err != nil {
		err = model.NewRunError(model.DeleteFailed, "list messages", err)
		utils.Logger.Error("could not list previous messages", "channel", channelID, "kind", model.DeleteFailed, "err", err)
		return 0, 0
	}

	var own []string
	for _, m := range msgs {
		if selfID != "" && m.AuthorID == selfID {
			own = append(own, m.ID)
		}
	}
	if len(own) == 0 {
		return 0, 0
	}

	var ok, bad atomic.Int32
	wp := pool.New().WithErrors()
	for _, id := range own {
		id := id
		wp.Go(func() error {
			if err := p.Channel.Delete(ctx, channelID, id); err != nil {
				bad.Add(1)
				err = model.NewRunError(model.DeleteFailed, "delete message "+id, err)
				utils.Logger.Warn("could not delete previous leaderboard", "channel", channelID, "message", id, "kind", model.DeleteFailed, "err", err)
				return err
			}
			ok.Add(1)
			return nil
		})
	}
	if err := wp.Wait(); err == nil {
		utils.Logger.Info("deleted previous leaderboard messages", "channel", channelID, "count", ok.Load())
	}
	return int(ok.Load()), int(bad.Load())
}
