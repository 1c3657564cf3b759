package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/scoring"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

const defaultUpdateWorkers = 8

// TeamUpdateService applies one match's per-player statistics across every
// persisted fantasy team. Teams are independent, so the batch runs on a
// bounded worker pool; each team is read, recomputed, and persisted on its
// own, and one team's failure never blocks the rest.
//
// Feeding the same match id through twice double-counts. Callers own the
// once-per-match sequencing.
type TeamUpdateService struct {
	teamRepo        fantasy.Repository
	playerStatsRepo playerStatsWriter
	logger          *logging.Logger
	workerCount     int
}

type playerStatsWriter interface {
	ApplyMatchPoints(ctx context.Context, playerID string, points int) error
}

type TeamUpdateResult struct {
	MatchID      string
	TeamsTotal   int
	TeamsUpdated int
	TeamsSkipped int
	TeamsFailed  int
	Failures     []TeamUpdateFailure
}

type TeamUpdateFailure struct {
	TeamID string
	Err    error
}

func NewTeamUpdateService(
	teamRepo fantasy.Repository,
	playerStatsRepo playerStatsWriter,
	workerCount int,
	logger *logging.Logger,
) *TeamUpdateService {
	if workerCount < 1 {
		workerCount = defaultUpdateWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamUpdateService{
		teamRepo:        teamRepo,
		playerStatsRepo: playerStatsRepo,
		logger:          logger,
		workerCount:     workerCount,
	}
}

// UpdateTeamsAfterMatch runs the batch: base points per involved player,
// captain doubling per team, gameweek and season totals accumulated, one
// atomic persistence call per touched team. Teams with no involved player
// are left untouched.
func (s *TeamUpdateService) UpdateTeamsAfterMatch(
	ctx context.Context,
	matchID string,
	perPlayerStats map[string]scoring.MatchStatistics,
) (TeamUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamUpdateService.UpdateTeamsAfterMatch")
	defer span.End()

	result := TeamUpdateResult{MatchID: matchID}
	if len(perPlayerStats) == 0 {
		return result, nil
	}

	basePoints := make(map[string]int, len(perPlayerStats))
	for playerID, stats := range perPlayerStats {
		basePoints[playerID] = scoring.ComputePoints(stats)
	}

	if err := s.applyPlayerStats(ctx, matchID, basePoints); err != nil {
		return result, err
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list fantasy teams for match update: %w", err)
	}
	result.TeamsTotal = len(teams)
	if len(teams) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return result, fmt.Errorf("create team update worker pool: %w", err)
	}
	defer pool.Release()

	var updated atomic.Int32
	var skipped atomic.Int32
	failures := make(chan TeamUpdateFailure, len(teams))

	var workers sync.WaitGroup
	for _, team := range teams {
		team := team
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			changed, updateErr := s.updateOneTeam(ctx, team, basePoints)
			switch {
			case updateErr != nil:
				failures <- TeamUpdateFailure{TeamID: team.ID, Err: updateErr}
			case changed:
				updated.Add(1)
			default:
				skipped.Add(1)
			}
		}); err != nil {
			workers.Done()
			return result, fmt.Errorf("submit team update to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(failures)

	for failure := range failures {
		s.logger.ErrorContext(ctx, "team update failed",
			"match_id", matchID, "team_id", failure.TeamID, "error", failure.Err)
		result.Failures = append(result.Failures, failure)
	}
	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].TeamID < result.Failures[j].TeamID
	})

	result.TeamsUpdated = int(updated.Load())
	result.TeamsSkipped = int(skipped.Load())
	result.TeamsFailed = len(result.Failures)

	s.logger.InfoContext(ctx, "match points applied",
		"match_id", matchID,
		"teams_updated", result.TeamsUpdated,
		"teams_skipped", result.TeamsSkipped,
		"teams_failed", result.TeamsFailed,
	)
	return result, nil
}

func (s *TeamUpdateService) updateOneTeam(ctx context.Context, team fantasy.Team, basePoints map[string]int) (bool, error) {
	touched := false
	earned := 0

	for idx := range team.Members {
		member := &team.Members[idx]
		base, ok := basePoints[member.PlayerID]
		if !ok {
			continue
		}
		touched = true

		final := base
		if member.IsCaptain {
			final = base * 2
		}

		member.TotalPoints += final
		member.GameweekPoints += final
		earned += final
	}

	if !touched {
		return false, nil
	}

	team.GameweekPoints += earned
	team.TotalPoints += earned
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return false, fmt.Errorf("persist team %s: %w", team.ID, err)
	}
	return true, nil
}

func (s *TeamUpdateService) applyPlayerStats(ctx context.Context, matchID string, basePoints map[string]int) error {
	if s.playerStatsRepo == nil {
		return nil
	}
	for playerID, points := range basePoints {
		if err := s.playerStatsRepo.ApplyMatchPoints(ctx, playerID, points); err != nil {
			// Player-level bookkeeping is secondary to team updates.
			s.logger.WarnContext(ctx, "apply player match points failed",
				"match_id", matchID, "player_id", playerID, "error", err)
		}
	}
	return nil
}
