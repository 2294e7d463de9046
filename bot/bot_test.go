package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseWaitsForQueuedRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	g, err := NewGate(rareSpec, func(context.Context, string) {
		close(started)
		<-release
		finished.Store(true)
	})
	require.NoError(t, err)

	s, err := discordgo.New("Bot test")
	require.NoError(t, err)
	b := &Bot{Session: s, Gate: g, ctx: context.Background()}

	assert.False(t, g.Request("command:1"))
	go b.openGate(s)
	<-started

	closed := make(chan struct{})
	go func() {
		b.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a queued run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return after the queued run finished")
	}
	assert.True(t, finished.Load())
	assert.Equal(t, Ready, g.State())
}
