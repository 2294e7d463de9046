package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"streak-bot/utils"
)

// GateState is the lifecycle of the run gate. It only moves forward.
type GateState int

const (
	NotReady GateState = iota
	Draining
	Ready
)

func (s GateState) String() string {
	switch s {
	case NotReady:
		return "not_ready"
	case Draining:
		return "draining"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("GateState(%d)", int(s))
	}
}

// RunFunc executes one leaderboard run.
type RunFunc func(ctx context.Context, trigger string)

// Gate holds run requests until the session is ready, then runs them in the
// order they arrived and arms the recurring schedule.
type Gate struct {
	mu      sync.Mutex
	state   GateState
	pending []string
	baseCtx context.Context

	run      RunFunc
	schedule string
	cron     *cron.Cron
}

// NewGate validates the cron schedule and returns a gate in the NotReady state.
func NewGate(schedule string, run RunFunc) (*Gate, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return &Gate{
		run:      run,
		schedule: schedule,
		cron:     cron.New(),
		baseCtx:  context.Background(),
	}, nil
}

// State returns the current lifecycle state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending is the number of deferred requests.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Request runs immediately when the gate is ready. Otherwise the request is
// queued and false is returned.
func (g *Gate) Request(trigger string) bool {
	g.mu.Lock()
	if g.state != Ready {
		g.pending = append(g.pending, trigger)
		n := len(g.pending)
		g.mu.Unlock()
		utils.Logger.Info("client not ready, queuing leaderboard update", "trigger", trigger, "pending", n)
		return false
	}
	ctx := g.baseCtx
	g.mu.Unlock()

	g.run(ctx, trigger)
	return true
}

// Open moves the gate to Ready. Queued requests, including ones that arrive
// while draining, run one at a time in FIFO order before the schedule is armed.
// Calls after the first are no-ops.
func (g *Gate) Open(ctx context.Context) error {
	g.mu.Lock()
	if g.state != NotReady {
		g.mu.Unlock()
		return nil
	}
	g.state = Draining
	g.baseCtx = ctx
	g.mu.Unlock()

	for {
		g.mu.Lock()
		if len(g.pending) == 0 {
			g.state = Ready
			g.mu.Unlock()
			break
		}
		trigger := g.pending[0]
		g.pending = g.pending[1:]
		g.mu.Unlock()

		utils.Logger.Info("executing queued leaderboard update", "trigger", trigger)
		g.run(ctx, trigger)
	}

	if _, err := g.cron.AddFunc(g.schedule, func() { g.run(ctx, "schedule") }); err != nil {
		return fmt.Errorf("failed to schedule leaderboard update: %w", err)
	}
	g.cron.Start()
	utils.Logger.Info("leaderboard update scheduled", "schedule", g.schedule)
	return nil
}

// Stop halts the schedule and waits for a scheduled run in progress.
func (g *Gate) Stop() {
	utils.Logger.Info("stopping scheduler...")
	<-g.cron.Stop().Done()
	utils.Logger.Info("scheduler stopped")
}
