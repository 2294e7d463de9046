package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"streak-bot/model"
)

const botID = "bot-1"

// fakeChannel is an in-memory channel. Messages are kept newest first.
type fakeChannel struct {
	mu         sync.Mutex
	messages   []Message
	contents   map[string]string
	nextID     int
	failDelete map[string]bool
	listErr    error
	sendErr    error

	deletes int
	sends   int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{contents: make(map[string]string), failDelete: make(map[string]bool)}
}

// seed appends an older message.
func (c *fakeChannel) seed(authorID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := fmt.Sprintf("m%d", c.nextID)
	c.messages = append(c.messages, Message{ID: id, AuthorID: authorID})
	return id
}

func (c *fakeChannel) Messages(_ context.Context, _ string, limit int) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	n := len(c.messages)
	if n > limit {
		n = limit
	}
	out := make([]Message, n)
	copy(out, c.messages[:n])
	return out, nil
}

func (c *fakeChannel) Delete(_ context.Context, _ string, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failDelete[messageID] {
		return errors.New("missing permissions")
	}
	for i, m := range c.messages {
		if m.ID == messageID {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			c.deletes++
			return nil
		}
	}
	return errors.New("unknown message")
}

func (c *fakeChannel) Send(_ context.Context, _ string, content string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return "", c.sendErr
	}
	c.nextID++
	id := fmt.Sprintf("m%d", c.nextID)
	c.messages = append([]Message{{ID: id, AuthorID: botID}}, c.messages...)
	c.contents[id] = content
	c.sends++
	return id, nil
}

func (c *fakeChannel) countBy(authorID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m.AuthorID == authorID {
			n++
		}
	}
	return n
}

func (c *fakeChannel) latestContent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return ""
	}
	return c.contents[c.messages[0].ID]
}

type fakeLocator struct {
	guildErr   error
	channelErr error
}

func (l *fakeLocator) FindGuild(context.Context, string) error { return l.guildErr }

func (l *fakeLocator) FindChannel(context.Context, string, string) error { return l.channelErr }

type fakeSource struct {
	entries []model.Entry
	err     error
	block   chan struct{}
	calls   int
}

func (s *fakeSource) Fetch(ctx context.Context) ([]model.Entry, error) {
	s.calls++
	if s.block != nil {
		<-s.block
	}
	return s.entries, s.err
}

type fakeDirectory struct {
	members map[string]model.Member
	errs    map[string]error
	panics  map[string]bool
}

func (d *fakeDirectory) Lookup(_ context.Context, username string) (model.Member, bool, error) {
	if d.panics[username] {
		panic("lookup exploded")
	}
	if err := d.errs[username]; err != nil {
		return model.Member{}, false, err
	}
	m, ok := d.members[username]
	return m, ok, nil
}

type memJournal struct {
	mu   sync.Mutex
	runs []model.RunRecord
}

func (j *memJournal) Record(rec model.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs = append(j.runs, rec)
	return nil
}

type memNotifier struct {
	failed []model.RunRecord
}

func (n *memNotifier) RunFailed(rec model.RunRecord) {
	n.failed = append(n.failed, rec)
}
