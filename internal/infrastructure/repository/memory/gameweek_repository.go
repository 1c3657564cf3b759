package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/schoolleague/fantasy-engine/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	items map[string]gameweek.History
}

func NewGameweekRepository() *GameweekRepository {
	return &GameweekRepository{items: make(map[string]gameweek.History)}
}

func (r *GameweekRepository) AppendIfAbsent(_ context.Context, h gameweek.History) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := historyKey(h.TeamID, h.Gameweek)
	if _, exists := r.items[key]; exists {
		return false, nil
	}
	r.items[key] = cloneHistory(h)
	return true, nil
}

// ListByTeam returns a team's snapshots, most recent gameweek first, up to
// limit entries when limit is positive.
func (r *GameweekRepository) ListByTeam(_ context.Context, teamID string, limit int) ([]gameweek.History, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.History, 0)
	for _, h := range r.items {
		if h.TeamID == teamID {
			out = append(out, cloneHistory(h))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Gameweek > out[j].Gameweek
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func historyKey(teamID string, gw int) string {
	return fmt.Sprintf("%s::%d", teamID, gw)
}

func cloneHistory(h gameweek.History) gameweek.History {
	copied := h
	copied.Breakdown = append([]gameweek.PlayerBreakdown(nil), h.Breakdown...)
	return copied
}
