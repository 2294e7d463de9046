package commands

import (
	"github.com/bwmarrin/discordgo"

	"streak-bot/commands/defs"
)

func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.LeaderboardRefresh,
		defs.LeaderboardStatus,
	}
}
