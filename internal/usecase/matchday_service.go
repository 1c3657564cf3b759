package usecase

import (
	"context"
	"fmt"

	"github.com/schoolleague/fantasy-engine/internal/domain/match"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

// MatchDayService runs the full post-match pipeline: extract per-player
// statistics from the result, apply points to every fantasy team, recompute
// ranks, then evaluate badges. The stages are strictly ordered because rank
// assignment needs all point updates in place, and badge predicates read
// ranks.
type MatchDayService struct {
	playerRepo  player.Repository
	results     *MatchResultService
	teamUpdates *TeamUpdateService
	leaderboard *LeaderboardService
	logger      *logging.Logger
}

func NewMatchDayService(
	playerRepo player.Repository,
	results *MatchResultService,
	teamUpdates *TeamUpdateService,
	leaderboard *LeaderboardService,
	logger *logging.Logger,
) *MatchDayService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchDayService{
		playerRepo:  playerRepo,
		results:     results,
		teamUpdates: teamUpdates,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// ProcessResult handles one finished match. Feeding the same match twice
// double-counts; the caller owns once-per-match sequencing.
func (s *MatchDayService) ProcessResult(ctx context.Context, result match.Result, gw int) (TeamUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDayService.ProcessResult")
	defer span.End()

	if result.MatchID == "" {
		return TeamUpdateResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if result.HomeTeamID == "" || result.AwayTeamID == "" {
		return TeamUpdateResult{}, fmt.Errorf("%w: both team ids are required", ErrInvalidInput)
	}

	homeRoster, awayRoster, err := s.rosters(ctx, result.HomeTeamID, result.AwayTeamID)
	if err != nil {
		return TeamUpdateResult{}, err
	}

	stats := s.results.ExtractPlayerStats(ctx, result, homeRoster, awayRoster)
	updateResult, err := s.teamUpdates.UpdateTeamsAfterMatch(ctx, result.MatchID, stats)
	if err != nil {
		return updateResult, err
	}

	if err := s.leaderboard.RecomputeRanks(ctx); err != nil {
		return updateResult, fmt.Errorf("recompute ranks after match %s: %w", result.MatchID, err)
	}
	if err := s.leaderboard.EvaluateBadges(ctx, gw); err != nil {
		return updateResult, fmt.Errorf("evaluate badges after match %s: %w", result.MatchID, err)
	}

	s.logger.InfoContext(ctx, "match result processed",
		"match_id", result.MatchID,
		"gameweek", gw,
		"players_involved", len(stats),
		"teams_updated", updateResult.TeamsUpdated,
	)
	return updateResult, nil
}

func (s *MatchDayService) rosters(ctx context.Context, homeTeamID, awayTeamID string) ([]player.Player, []player.Player, error) {
	pool, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list players for match rosters: %w", err)
	}

	var home, away []player.Player
	for _, p := range pool {
		switch p.TeamID {
		case homeTeamID:
			home = append(home, p)
		case awayTeamID:
			away = append(away, p)
		}
	}
	return home, away, nil
}
