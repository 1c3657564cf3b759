package memory

import (
	"context"
	"sync"

	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]fantasy.Team
}

func NewTeamRepository(teams []fantasy.Team) *TeamRepository {
	items := make(map[string]fantasy.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = cloneTeam(t)
	}
	return &TeamRepository{items: items}
}

func (r *TeamRepository) Get(_ context.Context, teamID string) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.items[teamID]
	if !ok {
		return fantasy.Team{}, false, nil
	}
	return cloneTeam(team), true, nil
}

func (r *TeamRepository) List(_ context.Context) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0, len(r.items))
	for _, team := range r.items {
		out = append(out, cloneTeam(team))
	}
	return out, nil
}

func (r *TeamRepository) Update(_ context.Context, team fantasy.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[team.ID] = cloneTeam(team)
	return nil
}

func cloneTeam(t fantasy.Team) fantasy.Team {
	copied := t
	copied.Members = append([]fantasy.SquadMember(nil), t.Members...)
	copied.Badges = append([]string(nil), t.Badges...)
	return copied
}
