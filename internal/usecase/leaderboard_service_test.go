package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/schoolleague/fantasy-engine/internal/domain/badge"
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/gameweek"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/infrastructure/repository/memory"
	"github.com/schoolleague/fantasy-engine/internal/platform/cache"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) Notify(_ context.Context, _, message string, _ map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func rankedTeams() []fantasy.Team {
	return []fantasy.Team{
		{ID: "ft-1", UserID: "user-a", Name: "Alpha", TotalPoints: 120, GameweekPoints: 40,
			Members: []fantasy.SquadMember{{PlayerID: "p1", Position: player.PositionForward, IsCaptain: true, GameweekPoints: 24}}},
		{ID: "ft-2", UserID: "user-b", Name: "Beta", TotalPoints: 90, GameweekPoints: 15,
			Members: []fantasy.SquadMember{{PlayerID: "p2", Position: player.PositionMidfielder, IsCaptain: true, GameweekPoints: 8}}},
		{ID: "ft-3", UserID: "user-c", Name: "Gamma", TotalPoints: 150, GameweekPoints: 110,
			Members: []fantasy.SquadMember{{PlayerID: "p3", Position: player.PositionForward, IsCaptain: true, GameweekPoints: 30}}},
	}
}

func newLeaderboardService(teamRepo fantasy.Repository, badgeRepo badge.Repository, historyRepo gameweek.Repository, seasonEnd time.Time) (*LeaderboardService, *captureNotifier) {
	notifier := &captureNotifier{}
	service := NewLeaderboardService(
		teamRepo,
		badgeRepo,
		historyRepo,
		memory.NewFantasyStatsRepository(),
		notifier,
		cache.NewStore(time.Minute),
		seasonEnd,
		logging.NewNop(),
	)
	return service, notifier
}

func TestRecomputeRanks_AssignsOverallAndWeekly(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	service, _ := newLeaderboardService(teamRepo, memory.NewBadgeRepository(), memory.NewGameweekRepository(), time.Time{})

	if err := service.RecomputeRanks(t.Context()); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	wantOverall := map[string]int{"ft-3": 1, "ft-1": 2, "ft-2": 3}
	wantWeekly := map[string]int{"ft-3": 1, "ft-1": 2, "ft-2": 3}
	for teamID, want := range wantOverall {
		team, _, _ := teamRepo.Get(t.Context(), teamID)
		if team.OverallRank != want {
			t.Fatalf("team %s: expected overall rank %d, got %d", teamID, want, team.OverallRank)
		}
		if team.WeeklyRank != wantWeekly[teamID] {
			t.Fatalf("team %s: expected weekly rank %d, got %d", teamID, wantWeekly[teamID], team.WeeklyRank)
		}
	}
}

func TestEvaluateBadges_PredicatesAndIdempotence(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	badgeRepo := memory.NewBadgeRepository()
	service, notifier := newLeaderboardService(teamRepo, badgeRepo, memory.NewGameweekRepository(), time.Time{})

	if err := service.RecomputeRanks(t.Context()); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if err := service.EvaluateBadges(t.Context(), 3); err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	// ft-3 leads: podium, top_10_week, century (110 gameweek points), and its
	// captain holds the best captain score at 30.
	badges, _ := badgeRepo.ListByUser(t.Context(), "user-c")
	got := make(map[badge.Type]bool, len(badges))
	for _, b := range badges {
		got[b.Type] = true
	}
	for _, want := range []badge.Type{badge.TypePodium, badge.TypeTop10Week, badge.TypeCentury, badge.TypePerfectCaptain} {
		if !got[want] {
			t.Fatalf("expected badge %s for leader, got %v", want, badges)
		}
	}
	if got[badge.TypeChampion] {
		t.Fatal("champion must not be awarded before season end")
	}

	bBadges, _ := badgeRepo.ListByUser(t.Context(), "user-b")
	hasPodium := false
	for _, b := range bBadges {
		if b.Type == badge.TypePodium {
			hasPodium = true
		}
	}
	if !hasPodium {
		t.Fatalf("third-placed team should earn podium, got %v", bBadges)
	}

	firstPassNotifications := notifier.count()
	if firstPassNotifications == 0 {
		t.Fatal("expected badge notifications on first pass")
	}

	// Second pass must award nothing new.
	if err := service.EvaluateBadges(t.Context(), 3); err != nil {
		t.Fatalf("second evaluate failed: %v", err)
	}
	badgesAfter, _ := badgeRepo.ListByUser(t.Context(), "user-c")
	if len(badgesAfter) != len(badges) {
		t.Fatalf("badge awards must be idempotent: %d then %d", len(badges), len(badgesAfter))
	}
	if notifier.count() != firstPassNotifications {
		t.Fatal("repeat evaluation must not re-notify")
	}
}

func TestEvaluateBadges_ChampionAtSeasonEnd(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	badgeRepo := memory.NewBadgeRepository()
	seasonEnd := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	service, _ := newLeaderboardService(teamRepo, badgeRepo, memory.NewGameweekRepository(), seasonEnd)
	service.now = func() time.Time { return seasonEnd.Add(24 * time.Hour) }

	if err := service.RecomputeRanks(t.Context()); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if err := service.EvaluateBadges(t.Context(), 30); err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	badges, _ := badgeRepo.ListByUser(t.Context(), "user-c")
	hasChampion := false
	for _, b := range badges {
		if b.Type == badge.TypeChampion {
			hasChampion = true
		}
	}
	if !hasChampion {
		t.Fatal("rank 1 at season end should earn champion")
	}
}

func TestEvaluateBadges_WinningStreak(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	badgeRepo := memory.NewBadgeRepository()
	historyRepo := memory.NewGameweekRepository()
	for gw := 1; gw <= 5; gw++ {
		if _, err := historyRepo.AppendIfAbsent(t.Context(), gameweek.History{TeamID: "ft-3", Gameweek: gw, Rank: 1}); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}
	service, _ := newLeaderboardService(teamRepo, badgeRepo, historyRepo, time.Time{})

	if err := service.EvaluateBadges(t.Context(), 6); err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	badges, _ := badgeRepo.ListByUser(t.Context(), "user-c")
	hasStreak := false
	for _, b := range badges {
		if b.Type == badge.TypeWinningStreak {
			hasStreak = true
		}
	}
	if !hasStreak {
		t.Fatal("five straight number-one finishes should earn winning_streak")
	}

	// A team with fewer than five snapshots never qualifies.
	aBadges, _ := badgeRepo.ListByUser(t.Context(), "user-a")
	for _, b := range aBadges {
		if b.Type == badge.TypeWinningStreak {
			t.Fatal("short history must not earn winning_streak")
		}
	}
}

func TestAwardWildcardMaster(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	badgeRepo := memory.NewBadgeRepository()
	service, _ := newLeaderboardService(teamRepo, badgeRepo, memory.NewGameweekRepository(), time.Time{})

	if err := service.AwardWildcardMaster(t.Context(), "ft-1", 49, 7); err != nil {
		t.Fatalf("below-threshold call failed: %v", err)
	}
	badges, _ := badgeRepo.ListByUser(t.Context(), "user-a")
	if len(badges) != 0 {
		t.Fatalf("49 points must not award wildcard_master: %v", badges)
	}

	if err := service.AwardWildcardMaster(t.Context(), "ft-1", 50, 7); err != nil {
		t.Fatalf("award failed: %v", err)
	}
	badges, _ = badgeRepo.ListByUser(t.Context(), "user-a")
	if len(badges) != 1 || badges[0].Type != badge.TypeWildcardMaster {
		t.Fatalf("expected wildcard_master, got %v", badges)
	}
}

func TestCloseGameweek_AppendOnceAndReset(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	historyRepo := memory.NewGameweekRepository()
	service, _ := newLeaderboardService(teamRepo, memory.NewBadgeRepository(), historyRepo, time.Time{})

	created, err := service.CloseGameweek(t.Context(), 4)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 snapshots, got %d", created)
	}

	history, _ := historyRepo.ListByTeam(t.Context(), "ft-3", 0)
	if len(history) != 1 || history[0].Points != 110 || history[0].Gameweek != 4 {
		t.Fatalf("unexpected snapshot: %+v", history)
	}

	team, _, _ := teamRepo.Get(t.Context(), "ft-3")
	if team.GameweekPoints != 0 {
		t.Fatalf("gameweek points must reset on close, got %d", team.GameweekPoints)
	}
	for _, member := range team.Members {
		if member.GameweekPoints != 0 {
			t.Fatalf("member gameweek points must reset: %+v", member)
		}
	}
	if team.TotalPoints != 150 {
		t.Fatalf("season total must survive the close, got %d", team.TotalPoints)
	}

	// Closing the same gameweek again creates nothing.
	createdAgain, err := service.CloseGameweek(t.Context(), 4)
	if err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if createdAgain != 0 {
		t.Fatalf("gameweek close must be append-once, got %d new snapshots", createdAgain)
	}

	if _, err := service.CloseGameweek(t.Context(), 0); err == nil {
		t.Fatal("gameweek zero must be rejected")
	}
}

func TestLeaderboard_CachedRead(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(rankedTeams())
	service, _ := newLeaderboardService(teamRepo, memory.NewBadgeRepository(), memory.NewGameweekRepository(), time.Time{})

	if err := service.RecomputeRanks(t.Context()); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	entries, err := service.Leaderboard(t.Context(), 2)
	if err != nil {
		t.Fatalf("leaderboard read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected top-2 slice, got %d", len(entries))
	}
	if entries[0].TeamID != "ft-3" || entries[0].Rank != 1 {
		t.Fatalf("expected ft-3 first, got %+v", entries[0])
	}
	if entries[1].TeamID != "ft-1" {
		t.Fatalf("expected ft-1 second, got %+v", entries[1])
	}
}
