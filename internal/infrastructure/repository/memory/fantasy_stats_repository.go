package memory

import (
	"context"
	"sync"

	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

type FantasyStatsRepository struct {
	mu    sync.RWMutex
	items map[string]player.FantasyStats
}

func NewFantasyStatsRepository() *FantasyStatsRepository {
	return &FantasyStatsRepository{items: make(map[string]player.FantasyStats)}
}

func (r *FantasyStatsRepository) Get(_ context.Context, playerID string) (player.FantasyStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.items[playerID]
	if !ok {
		return player.FantasyStats{}, false, nil
	}
	return cloneStats(stats), true, nil
}

func (r *FantasyStatsRepository) List(_ context.Context) ([]player.FantasyStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.FantasyStats, 0, len(r.items))
	for _, stats := range r.items {
		out = append(out, cloneStats(stats))
	}
	return out, nil
}

func (r *FantasyStatsRepository) Upsert(_ context.Context, stats player.FantasyStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[stats.PlayerID] = cloneStats(stats)
	return nil
}

func (r *FantasyStatsRepository) ApplyMatchPoints(_ context.Context, playerID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.items[playerID]
	stats.PlayerID = playerID
	stats.TotalPoints += points
	stats.GameweekPoints += points
	r.items[playerID] = stats
	return nil
}

func cloneStats(s player.FantasyStats) player.FantasyStats {
	copied := s
	copied.FormHistory = append([]int(nil), s.FormHistory...)
	return copied
}
