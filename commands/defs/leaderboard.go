package defs

import "github.com/bwmarrin/discordgo"

var manageGuild int64 = discordgo.PermissionManageServer

const (
	RefreshName = "leaderboard-refresh"
	StatusName  = "leaderboard-status"
)

var LeaderboardRefresh = &discordgo.ApplicationCommand{
	Name:                     RefreshName,
	Description:              "Fetch the streak leaderboard and repost it now",
	DefaultMemberPermissions: &manageGuild,
}

var LeaderboardStatus = &discordgo.ApplicationCommand{
	Name:                     StatusName,
	Description:              "Show the leaderboard bot status and last run",
	DefaultMemberPermissions: &manageGuild,
}
