package handlers

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"streak-bot/model"
	"streak-bot/utils"
)

type hostStats struct {
	Platform   string
	Kernel     string
	CPUCount   int
	CPUPercent float64
	MemUsedPct float64
	MemUsedMB  uint64
	MemTotalMB uint64
}

func collectHostStats() hostStats {
	var hs hostStats
	hs.CPUCount, _ = cpu.Counts(true)
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		hs.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		hs.MemUsedPct = vm.UsedPercent
		hs.MemUsedMB = vm.Used / 1024 / 1024
		hs.MemTotalMB = vm.Total / 1024 / 1024
	}
	if info, err := host.Info(); err == nil {
		hs.Platform = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		hs.Kernel = info.KernelVersion
	}
	return hs
}

func StatusHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	last, err := b.LastRun()
	if err != nil {
		utils.Logger.Warn("could not load last run", "err", err)
	}
	embed := buildStatusEmbed(b.IsReady(), b.RosterSize(), last, collectHostStats(), s.HeartbeatLatency())
	utils.SendEmbedResponse(s, i, embed)
}

func buildStatusEmbed(ready bool, rosterSize int, last *model.RunRecord, hs hostStats, latency time.Duration) *discordgo.MessageEmbed {
	state := "⏳ Starting"
	if ready {
		state = "✅ Ready"
	}

	lastRun := "No runs yet"
	color := 0x5865F2 // Discord Blurple
	if last != nil {
		lastRun = fmt.Sprintf("%s <t:%d:R> via `%s`", last.Outcome, last.StartedAt.Unix(), last.Trigger)
		if last.Outcome == model.OutcomePosted {
			lastRun += fmt.Sprintf("\n%d entries, %d old posts removed", last.Entries, last.Deleted)
		} else if last.ErrorKind != "" {
			lastRun += fmt.Sprintf("\n`%s`", last.ErrorKind)
			color = 0xE67E22
		}
	}

	return &discordgo.MessageEmbed{
		Title: "Leaderboard bot status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📡 State", Value: state, Inline: true},
			{Name: "👥 Cached members", Value: fmt.Sprintf("%d", rosterSize), Inline: true},
			{Name: "⏱️ WebSocket latency", Value: latency.String(), Inline: true},
			{Name: "🏆 Last run", Value: lastRun},
			{Name: "💻 OS", Value: orDash(hs.Platform), Inline: true},
			{Name: "🔧 Kernel", Value: orDash(hs.Kernel), Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔥 CPU", Value: fmt.Sprintf("%.1f%% of %d cores", hs.CPUPercent, hs.CPUCount), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", hs.MemUsedPct, hs.MemUsedMB, hs.MemTotalMB), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor · %s", time.Now().Format("15:04")),
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
