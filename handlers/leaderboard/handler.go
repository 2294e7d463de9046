package leaderboard

import (
	"github.com/bwmarrin/discordgo"

	"streak-bot/model"
	"streak-bot/utils"
)

// HandleRefreshInteraction queues a leaderboard run for the invoking member.
func HandleRefreshInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	trigger := "command:" + interactionUserID(i)
	b.RequestRun(trigger)

	if b.IsReady() {
		utils.SendSimpleResponse(s, i, "🔄 Leaderboard update started.")
		return
	}
	utils.SendSimpleResponse(s, i, "⏳ Bot is still starting up, the update is queued and will run once it is ready.")
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return "unknown"
}
