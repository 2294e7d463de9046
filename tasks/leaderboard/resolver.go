package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"streak-bot/model"
	"streak-bot/utils"
)

// Resolver attaches display names to leaderboard entries.
type Resolver struct {
	Directory Directory
}

// Resolve returns one ResolvedEntry per entry, in the same order.
// It never fails: an entry whose lookup errors keeps its raw username.
func (r *Resolver) Resolve(ctx context.Context, entries []model.Entry) []model.ResolvedEntry {
	return iter.Map(entries, func(e *model.Entry) model.ResolvedEntry {
		return model.ResolvedEntry{Entry: *e, DisplayName: r.resolveOne(ctx, e.Username)}
	})
}

func (r *Resolver) resolveOne(ctx context.Context, username string) (name string) {
	name = username
	defer func() {
		if p := recover(); p != nil {
			err := model.NewRunError(model.ResolutionFailed, "resolve "+username, fmt.Errorf("panic: %v", p))
			utils.Logger.Error("identity resolution failed", "username", username, "kind", err.Kind, "err", err)
			name = username
		}
	}()

	if r.Directory == nil {
		return username
	}
	member, ok, err := r.Directory.Lookup(ctx, strings.TrimPrefix(username, "@"))
	if err != nil {
		err = model.NewRunError(model.ResolutionFailed, "resolve "+username, err)
		utils.Logger.Warn("identity resolution failed", "username", username, "kind", model.ResolutionFailed, "err", err)
		return username
	}
	if !ok {
		return username
	}
	if member.DisplayName != "" {
		return member.DisplayName
	}
	if member.Username != "" {
		return member.Username
	}
	return username
}
