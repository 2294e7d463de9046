package main

import (
	"os"

	"streak-bot/bot"
	"streak-bot/config"
	"streak-bot/handlers"
	"streak-bot/utils"
	"streak-bot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatal("error loading config", "err", err)
	}
	utils.SetLogLevel(cfg.LogLevel)

	db, err := database.InitRunDB(cfg.DBPath)
	if err != nil {
		utils.Logger.Fatal("error initializing database", "err", err)
	}
	defer db.Close()

	b, err := bot.New(cfg, db)
	if err != nil {
		utils.Logger.Fatal("error creating bot", "err", err)
	}

	handlers.Register(b)

	if err := b.Run(); err != nil {
		utils.Logger.Error("fatal", "err", err)
		db.Close()
		os.Exit(1)
	}
}
