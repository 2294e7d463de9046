package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"streak-bot/model"
	"streak-bot/utils"
)

const (
	DefaultGuildID   = "1270161104357560431"
	DefaultChannelID = "1369351236327051456"
	DefaultSchedule  = "0 * * * *"
	DefaultDBPath    = "data/leaderboard.db"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("DISCORD_BOT_TOKEN is not set")

// Load reads .env, an optional config.yaml and the environment.
// Environment variables win over the config file.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info(".env file not found, relying on environment variables")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*model.Config, error) {
	v.SetDefault("guild_id", DefaultGuildID)
	v.SetDefault("channel_id", DefaultChannelID)
	v.SetDefault("schedule", DefaultSchedule)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("health_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("notify_fetch_failure", false)
	v.SetDefault("run_history", 500)
	v.SetDefault("register_commands", true)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("data")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only consults keys viper already knows about.
	_ = v.BindEnv("discord_bot_token")
	_ = v.BindEnv("log_channel_id")

	cfg := &model.Config{
		BotToken:           strings.TrimSpace(v.GetString("discord_bot_token")),
		GuildID:            v.GetString("guild_id"),
		ChannelID:          v.GetString("channel_id"),
		LogChannelID:       v.GetString("log_channel_id"),
		Schedule:           v.GetString("schedule"),
		DBPath:             v.GetString("db_path"),
		HealthAddr:         v.GetString("health_addr"),
		LogLevel:           v.GetString("log_level"),
		NotifyFetchFailure: v.GetBool("notify_fetch_failure"),
		RunHistory:         v.GetInt("run_history"),
		RegisterCommands:   v.GetBool("register_commands"),
	}

	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.LogChannelID == "" {
		utils.Logger.Warn("LOG_CHANNEL_ID not set, ops logging to Discord is disabled")
	}
	return cfg, nil
}
