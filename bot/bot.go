package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"streak-bot/model"
	"streak-bot/tasks/leaderboard"
	"streak-bot/utils"
	"streak-bot/utils/database"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	config             atomic.Value // *model.Config
	DB                 *sqlx.DB
	Roster             *leaderboard.Roster
	Runner             *leaderboard.Runner
	Gate               *Gate
	Journal            *database.RunJournal

	selfID    atomic.Value // string
	ctx       context.Context
	runs      sync.WaitGroup
	closeOnce sync.Once
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

// SelfID is the bot's own user ID once the session is ready.
func (b *Bot) SelfID() string {
	id, _ := b.selfID.Load().(string)
	return id
}

func (b *Bot) IsReady() bool {
	return b.Gate.State() == Ready
}

func (b *Bot) RosterSize() int {
	return b.Roster.Len()
}

func (b *Bot) LastRun() (*model.RunRecord, error) {
	return b.Journal.Latest()
}

// RequestRun hands a run request to the gate without blocking the caller.
func (b *Bot) RequestRun(trigger string) {
	b.runs.Add(1)
	go func() {
		defer b.runs.Done()
		b.Gate.Request(trigger)
	}()
}

// RunFailed forwards runs that did not post to the ops log channel.
func (b *Bot) RunFailed(rec model.RunRecord) {
	cfg := b.GetConfig()
	detail := fmt.Sprintf("run %s (%s): %s", rec.ID, rec.Trigger, rec.Error)
	if rec.ErrorKind != "" {
		detail = fmt.Sprintf("[%s] %s", rec.ErrorKind, detail)
	}
	if err := utils.LogError(b.Session, cfg.LogChannelID, "Leaderboard", "Run "+rec.Outcome, detail); err != nil {
		utils.Logger.Warn("failed to send ops log", "err", err)
	}
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	b := &Bot{
		Session: dg,
		DB:      db,
		Roster:  leaderboard.NewRoster(),
		Journal: &database.RunJournal{DB: db, Keep: cfg.RunHistory},
		ctx:     context.Background(),
	}
	b.config.Store(cfg)
	b.selfID.Store("")

	platform := &leaderboard.Discord{Session: dg}
	b.Runner = &leaderboard.Runner{
		GuildID:            cfg.GuildID,
		ChannelID:          cfg.ChannelID,
		SelfID:             b.SelfID,
		NotifyFetchFailure: cfg.NotifyFetchFailure,
		Locator:            platform,
		Fetcher:            leaderboard.NewFetcher(leaderboard.BackendURL),
		Resolver: &leaderboard.Resolver{Directory: &leaderboard.SearchingDirectory{
			Roster:   b.Roster,
			Searcher: platform,
			GuildID:  cfg.GuildID,
		}},
		Renderer:  leaderboard.NewRenderer(),
		Publisher: &leaderboard.Publisher{Channel: platform},
		Journal:   b.Journal,
		Notifier:  b,
	}

	b.Gate, err = NewGate(cfg.Schedule, func(ctx context.Context, trigger string) {
		b.Runner.Run(ctx, trigger)
	})
	if err != nil {
		return nil, err
	}

	b.addHandlers()
	return b, nil
}

func (b *Bot) Close() {
	b.closeOnce.Do(func() {
		utils.Logger.Info("gracefully shutting down")
		// The startup drain arms the schedule, so it must finish before Stop.
		b.runs.Wait()
		b.Gate.Stop()
		if err := b.Session.Close(); err != nil {
			utils.Logger.Warn("error closing session", "err", err)
		}
	})
}

func (b *Bot) RefreshCommands(cmds []*discordgo.ApplicationCommand) {
	guildID := b.GetConfig().GuildID
	utils.Logger.Info("registering commands", "guild", guildID, "count", len(cmds))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, guildID, cmds)
	if err != nil {
		utils.Logger.Error("cannot update commands", "guild", guildID, "err", err)
		return
	}
	b.RegisteredCommands = registered
}
