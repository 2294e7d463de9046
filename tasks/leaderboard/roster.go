package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"streak-bot/model"
)

// memberPageSize is the largest page the platform serves for member listing.
const memberPageSize = 1000

// MemberSource pages through the members of a community.
type MemberSource interface {
	Members(ctx context.Context, guildID, after string, limit int) ([]model.Member, error)
}

// MemberSearcher looks members up by username prefix on the platform.
type MemberSearcher interface {
	SearchMembers(ctx context.Context, guildID, query string, limit int) ([]model.Member, error)
}

// Directory maps a username to a community member.
type Directory interface {
	Lookup(ctx context.Context, username string) (model.Member, bool, error)
}

// Roster caches the members of one community. Safe for concurrent use.
type Roster struct {
	mu      sync.RWMutex
	members map[string]model.Member
	byName  map[string]string
}

func NewRoster() *Roster {
	return &Roster{
		members: make(map[string]model.Member),
		byName:  make(map[string]string),
	}
}

// Load replaces the cache with every member of guildID.
func (r *Roster) Load(ctx context.Context, src MemberSource, guildID string) (int, error) {
	var all []model.Member
	after := ""
	for {
		page, err := src.Members(ctx, guildID, after, memberPageSize)
		if err != nil {
			return 0, fmt.Errorf("failed to list members of guild %s: %w", guildID, err)
		}
		all = append(all, page...)
		if len(page) < memberPageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = make(map[string]model.Member, len(all))
	r.byName = make(map[string]string, len(all))
	for _, m := range all {
		r.put(m)
	}
	return len(all), nil
}

// Upsert adds or refreshes a member.
func (r *Roster) Upsert(m model.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.members[m.ID]; ok {
		r.dropName(old)
	}
	r.put(m)
}

// Remove forgets the member with the given ID.
func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.members[id]; ok {
		r.dropName(old)
		delete(r.members, id)
	}
}

// Len is the number of cached members.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Get returns the member whose username matches case-insensitively.
func (r *Roster) Get(username string) (model.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[foldName(username)]
	if !ok {
		return model.Member{}, false
	}
	m, ok := r.members[id]
	return m, ok
}

// Lookup implements Directory with a cache read.
func (r *Roster) Lookup(_ context.Context, username string) (model.Member, bool, error) {
	m, ok := r.Get(username)
	return m, ok, nil
}

// put and dropName expect r.mu to be held.
func (r *Roster) put(m model.Member) {
	r.members[m.ID] = m
	if m.Username != "" {
		r.byName[foldName(m.Username)] = m.ID
	}
}

func (r *Roster) dropName(m model.Member) {
	key := foldName(m.Username)
	if r.byName[key] == m.ID {
		delete(r.byName, key)
	}
}

func foldName(s string) string {
	return strings.ToLower(s)
}

// SearchingDirectory reads the roster first and asks the platform on a miss.
// Hits from the platform are written back to the roster.
type SearchingDirectory struct {
	Roster   *Roster
	Searcher MemberSearcher
	GuildID  string
}

func (d *SearchingDirectory) Lookup(ctx context.Context, username string) (model.Member, bool, error) {
	if m, ok := d.Roster.Get(username); ok {
		return m, true, nil
	}
	if d.Searcher == nil {
		return model.Member{}, false, nil
	}
	found, err := d.Searcher.SearchMembers(ctx, d.GuildID, username, 10)
	if err != nil {
		return model.Member{}, false, fmt.Errorf("failed to search members for %q: %w", username, err)
	}
	for _, m := range found {
		if strings.EqualFold(m.Username, username) {
			d.Roster.Upsert(m)
			return m, true, nil
		}
	}
	return model.Member{}, false, nil
}
