package bot

import (
	"github.com/bwmarrin/discordgo"

	"streak-bot/tasks/leaderboard"
	"streak-bot/utils"
)

func (b *Bot) addHandlers() {
	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.Member == nil || m.User == nil || m.GuildID != b.GetConfig().GuildID {
			return
		}
		b.Roster.Upsert(leaderboard.MemberFromDiscord(m.Member))
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
		if m.Member == nil || m.User == nil || m.GuildID != b.GetConfig().GuildID {
			return
		}
		b.Roster.Upsert(leaderboard.MemberFromDiscord(m.Member))
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		if m.Member == nil || m.User == nil || m.GuildID != b.GetConfig().GuildID {
			return
		}
		b.Roster.Remove(m.User.ID)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
}

// onReady loads the roster and opens the gate. Ready fires again after a
// reconnect; the roster is reloaded but the gate only opens once.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.selfID.Store(r.User.ID)
	utils.Logger.Info("logged in", "user", r.User.Username, "id", r.User.ID)

	cfg := b.GetConfig()
	n, err := b.Roster.Load(b.ctx, &leaderboard.Discord{Session: s}, cfg.GuildID)
	if err != nil {
		utils.Logger.Error("error fetching guild members", "guild", cfg.GuildID, "err", err)
	} else {
		utils.Logger.Info("guild members fetched", "guild", cfg.GuildID, "members", n)
	}

	b.openGate(s)
}

// openGate drains queued requests and arms the schedule. Close waits for it.
func (b *Bot) openGate(s *discordgo.Session) {
	b.runs.Add(1)
	defer b.runs.Done()

	if err := b.Gate.Open(b.ctx); err != nil {
		utils.Logger.Error("could not open run gate", "err", err)
		if logErr := utils.LogError(s, b.GetConfig().LogChannelID, "System", "Scheduler", err.Error()); logErr != nil {
			utils.Logger.Warn("failed to send ops log", "err", logErr)
		}
	}
}
