package model

// Config stores the application configuration.
type Config struct {
	BotToken           string
	GuildID            string
	ChannelID          string
	LogChannelID       string
	Schedule           string
	DBPath             string
	HealthAddr         string
	LogLevel           string
	NotifyFetchFailure bool
	RunHistory         int
	RegisterCommands   bool
}
