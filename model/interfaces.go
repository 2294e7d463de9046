package model

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
	// RequestRun asks for a leaderboard run. Requests made before the
	// session is ready are deferred until it is.
	RequestRun(trigger string)
	IsReady() bool
	RosterSize() int
	LastRun() (*RunRecord, error)
}

// StatusProvider is the read-only view used by the health server.
type StatusProvider interface {
	IsReady() bool
	RosterSize() int
	LastRun() (*RunRecord, error)
}
