package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/schoolleague/fantasy-engine/internal/domain/badge"
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/gameweek"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/platform/cache"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const (
	centuryThreshold        = 100
	perfectCaptainThreshold = 20
	wildcardMasterThreshold = 50
	winningStreakLength     = 5
	top10WeekCutoff         = 10
	podiumCutoff            = 3

	leaderboardCacheKey = "leaderboard:overall"
)

// LeaderboardService assigns ranks after a batch of team updates and
// evaluates badge predicates. Rank computation requires a consistent snapshot
// of all teams, so it must run strictly after the point-update batch for a
// match has completed.
type LeaderboardService struct {
	teamRepo    fantasy.Repository
	badgeRepo   badge.Repository
	historyRepo gameweek.Repository
	statsRepo   player.FantasyStatsRepository
	notifier    Notifier
	cache       *cache.Store
	logger      *logging.Logger
	now         func() time.Time
	seasonEndAt time.Time
}

type LeaderboardEntry struct {
	TeamID         string
	UserID         string
	Name           string
	TotalPoints    int
	GameweekPoints int
	Rank           int
}

func NewLeaderboardService(
	teamRepo fantasy.Repository,
	badgeRepo badge.Repository,
	historyRepo gameweek.Repository,
	statsRepo player.FantasyStatsRepository,
	notifier Notifier,
	store *cache.Store,
	seasonEndAt time.Time,
	logger *logging.Logger,
) *LeaderboardService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		teamRepo:    teamRepo,
		badgeRepo:   badgeRepo,
		historyRepo: historyRepo,
		statsRepo:   statsRepo,
		notifier:    notifier,
		cache:       store,
		logger:      logger,
		now:         time.Now,
		seasonEndAt: seasonEndAt,
	}
}

// RecomputeRanks sorts all teams by season total (descending, stable) and
// assigns 1-based overall ranks, then does the same over current-gameweek
// points for weekly ranks. Per-team persistence failures are logged and do
// not block the other teams.
func (s *LeaderboardService) RecomputeRanks(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RecomputeRanks")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams for rank recompute: %w", err)
	}
	if len(teams) == 0 {
		return nil
	}

	overall := make([]fantasy.Team, len(teams))
	copy(overall, teams)
	sort.SliceStable(overall, func(i, j int) bool {
		if overall[i].TotalPoints != overall[j].TotalPoints {
			return overall[i].TotalPoints > overall[j].TotalPoints
		}
		return overall[i].UserID < overall[j].UserID
	})
	overallRank := make(map[string]int, len(overall))
	for idx, team := range overall {
		overallRank[team.ID] = idx + 1
	}

	weekly := make([]fantasy.Team, len(teams))
	copy(weekly, teams)
	sort.SliceStable(weekly, func(i, j int) bool {
		if weekly[i].GameweekPoints != weekly[j].GameweekPoints {
			return weekly[i].GameweekPoints > weekly[j].GameweekPoints
		}
		return weekly[i].UserID < weekly[j].UserID
	})
	weeklyRank := make(map[string]int, len(weekly))
	for idx, team := range weekly {
		weeklyRank[team.ID] = idx + 1
	}

	for _, team := range teams {
		team.OverallRank = overallRank[team.ID]
		team.WeeklyRank = weeklyRank[team.ID]
		if err := s.teamRepo.Update(ctx, team); err != nil {
			s.logger.ErrorContext(ctx, "persist rank failed", "team_id", team.ID, "error", err)
		}
	}

	if s.cache != nil {
		s.cache.Delete(ctx, leaderboardCacheKey)
	}
	return nil
}

// EvaluateBadges checks every badge predicate for every team after ranks and
// points are current. Each badge type is evaluated independently: one failing
// check never blocks the others, and awards are idempotent through the
// repository's AwardIfAbsent contract.
func (s *LeaderboardService) EvaluateBadges(ctx context.Context, gw int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.EvaluateBadges")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams for badge evaluation: %w", err)
	}
	if len(teams) == 0 {
		return nil
	}

	bestCaptainPoints := 0
	for _, team := range teams {
		if captain, ok := team.Captain(); ok && captain.GameweekPoints > bestCaptainPoints {
			bestCaptainPoints = captain.GameweekPoints
		}
	}

	var wg conc.WaitGroup
	for _, team := range teams {
		team := team
		wg.Go(func() {
			s.evaluateTeamBadges(ctx, team, gw, bestCaptainPoints)
		})
	}
	wg.Wait()

	return nil
}

func (s *LeaderboardService) evaluateTeamBadges(ctx context.Context, team fantasy.Team, gw, bestCaptainPoints int) {
	if team.WeeklyRank >= 1 && team.WeeklyRank <= top10WeekCutoff {
		s.award(ctx, team, badge.TypeTop10Week, gw, map[string]any{"weekly_rank": team.WeeklyRank})
	}

	if team.OverallRank >= 1 && team.OverallRank <= podiumCutoff {
		s.award(ctx, team, badge.TypePodium, gw, map[string]any{"rank": team.OverallRank})
	}

	if team.GameweekPoints >= centuryThreshold {
		s.award(ctx, team, badge.TypeCentury, gw, map[string]any{"points": team.GameweekPoints})
	}

	if captain, ok := team.Captain(); ok {
		if captain.GameweekPoints >= perfectCaptainThreshold && captain.GameweekPoints >= bestCaptainPoints {
			s.award(ctx, team, badge.TypePerfectCaptain, gw, map[string]any{
				"captain_id":     captain.PlayerID,
				"captain_points": captain.GameweekPoints,
			})
		}
	}

	if team.OverallRank == 1 && s.seasonEnded() {
		s.award(ctx, team, badge.TypeChampion, gw, nil)
	}

	if s.hasWinningStreak(ctx, team.ID) {
		s.award(ctx, team, badge.TypeWinningStreak, gw, nil)
	}
}

// AwardWildcardMaster is evaluated at wildcard-use time, outside the normal
// post-match pass: the points gained by the wildcard rebuild must reach the
// threshold.
func (s *LeaderboardService) AwardWildcardMaster(ctx context.Context, teamID string, pointsGained, gw int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.AwardWildcardMaster")
	defer span.End()

	if pointsGained < wildcardMasterThreshold {
		return nil
	}

	team, ok, err := s.teamRepo.Get(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team for wildcard badge: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	s.award(ctx, team, badge.TypeWildcardMaster, gw, map[string]any{"points_gained": pointsGained})
	return nil
}

// CloseGameweek writes the append-only history snapshot for every team, then
// rolls gameweek points into form history and resets the weekly counters.
// Snapshots already present for (team, gameweek) are left untouched.
func (s *LeaderboardService) CloseGameweek(ctx context.Context, gw int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.CloseGameweek")
	defer span.End()

	if gw <= 0 {
		return 0, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list teams for gameweek close: %w", err)
	}

	now := s.now().UTC()
	created := 0
	for _, team := range teams {
		breakdown := make([]gameweek.PlayerBreakdown, 0, len(team.Members))
		for _, member := range team.Members {
			breakdown = append(breakdown, gameweek.PlayerBreakdown{
				PlayerID:  member.PlayerID,
				Points:    member.GameweekPoints,
				IsCaptain: member.IsCaptain,
			})
		}

		wasCreated, err := s.historyRepo.AppendIfAbsent(ctx, gameweek.History{
			TeamID:        team.ID,
			Gameweek:      gw,
			Points:        team.GameweekPoints,
			Rank:          team.OverallRank,
			TransfersUsed: team.Transfers,
			Breakdown:     breakdown,
			ClosedAt:      now,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "append gameweek history failed",
				"team_id", team.ID, "gameweek", gw, "error", err)
			continue
		}
		if !wasCreated {
			continue
		}
		created++

		team.GameweekPoints = 0
		for idx := range team.Members {
			team.Members[idx].GameweekPoints = 0
		}
		if err := s.teamRepo.Update(ctx, team); err != nil {
			s.logger.ErrorContext(ctx, "reset gameweek points failed",
				"team_id", team.ID, "gameweek", gw, "error", err)
		}
	}

	s.rollPlayerForm(ctx, gw)

	if s.cache != nil {
		s.cache.Delete(ctx, leaderboardCacheKey)
	}
	return created, nil
}

// Leaderboard returns ranked teams, hottest path first, served from the TTL
// cache when possible.
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		teams, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams for leaderboard: %w", err)
		}

		entries := make([]LeaderboardEntry, 0, len(teams))
		for _, team := range teams {
			entries = append(entries, LeaderboardEntry{
				TeamID:         team.ID,
				UserID:         team.UserID,
				Name:           team.Name,
				TotalPoints:    team.TotalPoints,
				GameweekPoints: team.GameweekPoints,
				Rank:           team.OverallRank,
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Rank != entries[j].Rank {
				if entries[i].Rank == 0 {
					return false
				}
				if entries[j].Rank == 0 {
					return true
				}
				return entries[i].Rank < entries[j].Rank
			}
			return entries[i].UserID < entries[j].UserID
		})
		return entries, nil
	}

	var entries []LeaderboardEntry
	if s.cache != nil {
		value, err := s.cache.GetOrLoad(ctx, leaderboardCacheKey, load)
		if err != nil {
			return nil, err
		}
		entries = value.([]LeaderboardEntry)
	} else {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		entries = value.([]LeaderboardEntry)
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *LeaderboardService) award(ctx context.Context, team fantasy.Team, badgeType badge.Type, gw int, metadata map[string]any) {
	created, err := s.badgeRepo.AwardIfAbsent(ctx, badge.Badge{
		UserID:   team.UserID,
		Type:     badgeType,
		EarnedAt: s.now().UTC(),
		Gameweek: gw,
		Metadata: metadata,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "award badge failed",
			"team_id", team.ID, "badge", string(badgeType), "error", err)
		return
	}
	if !created {
		return
	}

	if !team.HasBadge(string(badgeType)) {
		team.Badges = append(team.Badges, string(badgeType))
		if err := s.teamRepo.Update(ctx, team); err != nil {
			s.logger.ErrorContext(ctx, "persist badge on team failed",
				"team_id", team.ID, "badge", string(badgeType), "error", err)
		}
	}

	if err := s.notifier.Notify(ctx, team.UserID, fmt.Sprintf("badge earned: %s", badgeType), map[string]any{
		"badge":    string(badgeType),
		"team_id":  team.ID,
		"gameweek": gw,
	}); err != nil {
		s.logger.WarnContext(ctx, "badge notification failed",
			"team_id", team.ID, "badge", string(badgeType), "error", err)
	}
}

func (s *LeaderboardService) hasWinningStreak(ctx context.Context, teamID string) bool {
	history, err := s.historyRepo.ListByTeam(ctx, teamID, winningStreakLength)
	if err != nil {
		s.logger.ErrorContext(ctx, "list gameweek history failed", "team_id", teamID, "error", err)
		return false
	}
	if len(history) < winningStreakLength {
		return false
	}
	for _, snapshot := range history {
		if snapshot.Rank != 1 {
			return false
		}
	}
	return true
}

func (s *LeaderboardService) seasonEnded() bool {
	return !s.seasonEndAt.IsZero() && !s.now().Before(s.seasonEndAt)
}

func (s *LeaderboardService) rollPlayerForm(ctx context.Context, gw int) {
	if s.statsRepo == nil {
		return
	}
	stats, err := s.statsRepo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list player stats for form roll failed", "gameweek", gw, "error", err)
		return
	}
	for _, item := range stats {
		item.PushForm(item.GameweekPoints)
		item.GameweekPoints = 0
		if err := s.statsRepo.Upsert(ctx, item); err != nil {
			s.logger.ErrorContext(ctx, "roll player form failed",
				"player_id", item.PlayerID, "gameweek", gw, "error", err)
		}
	}
}
