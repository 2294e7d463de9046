package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streak-bot/commands"
	"streak-bot/health"
	"streak-bot/utils"
)

// Run opens the session and blocks until SIGINT or SIGTERM. A failed login is
// returned to the caller, which treats it as fatal.
func (b *Bot) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	b.ctx = ctx

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("failed to login to Discord: %w", err)
	}
	defer b.Close()

	cfg := b.GetConfig()
	if cfg.RegisterCommands {
		b.RefreshCommands(commands.GenerateCommands())
	}

	var hs *health.Server
	if cfg.HealthAddr != "" {
		hs = health.New(cfg.HealthAddr, b)
		go func() {
			if err := hs.Start(); err != nil {
				utils.Logger.Error("health server error", "err", err)
			}
		}()
	}

	utils.Logger.Info("bot is now running, press CTRL-C to exit")
	if err := utils.LogInfo(b.Session, cfg.LogChannelID, "System", "Startup", "Leaderboard bot has started."); err != nil {
		utils.Logger.Warn("failed to send startup log", "err", err)
	}
	<-ctx.Done()

	if hs != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			utils.Logger.Warn("health server shutdown error", "err", err)
		}
	}
	return nil
}
