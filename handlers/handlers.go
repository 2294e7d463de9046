package handlers

import (
	"github.com/bwmarrin/discordgo"

	"streak-bot/bot"
	"streak-bot/commands/defs"
	"streak-bot/handlers/leaderboard"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		defs.RefreshName: func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			leaderboard.HandleRefreshInteraction(s, i, b)
		},
		defs.StatusName: func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			StatusHandler(s, i, b)
		},
	}
}
