package usecase

import (
	"math"
	"testing"

	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/infrastructure/repository/memory"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

func TestSeedInitialPrices(t *testing.T) {
	t.Parallel()

	playerRepo := memory.NewPlayerRepository([]player.Player{
		{ID: "p1", Name: "Dani Costa", Position: player.PositionForward,
			SeasonStats: player.SeasonStats{Goals: 4, Assists: 2, MatchesPlayed: 6}, OverallRating: 74},
		{ID: "p2", Name: "Luca Romero", Position: player.PositionMidfielder,
			SeasonStats: player.SeasonStats{Assists: 5, MatchesPlayed: 8}, OverallRating: 70},
	})
	statsRepo := memory.NewFantasyStatsRepository()
	service := NewPricingService(playerRepo, statsRepo, logging.NewNop())

	created, err := service.SeedInitialPrices(t.Context())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 priced players, got %d", created)
	}

	// FWD base 7.0 + 4 goals x 0.5 + 2 assists x 0.3 + 6 matches x 0.1 + rating bonus 0.4.
	stats, ok, err := statsRepo.Get(t.Context(), "p1")
	if err != nil || !ok {
		t.Fatalf("expected stats for p1: ok=%v err=%v", ok, err)
	}
	if math.Abs(stats.Price-10.6) > 1e-9 {
		t.Fatalf("expected initial price 10.6, got %v", stats.Price)
	}

	// Re-seeding must not touch existing records.
	created, err = service.SeedInitialPrices(t.Context())
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if created != 0 {
		t.Fatalf("second seed must create nothing, got %d", created)
	}
}

func TestUpdatePlayerPrices(t *testing.T) {
	t.Parallel()

	statsRepo := memory.NewFantasyStatsRepository()
	seed := []player.FantasyStats{
		{PlayerID: "hot", Position: player.PositionForward, Price: 8.0, FormHistory: []int{9, 10, 8, 9, 10}},
		{PlayerID: "cold", Position: player.PositionDefender, Price: 5.0, FormHistory: []int{1, 0, 2, 1, 1}},
		{PlayerID: "flat", Position: player.PositionMidfielder, Price: 6.0, FormHistory: []int{4, 3, 4, 3, 4}},
		{PlayerID: "fresh", Position: player.PositionGoalkeeper, Price: 4.5},
		{PlayerID: "capped", Position: player.PositionForward, Price: 14.9, FormHistory: []int{10, 10, 10, 10, 10}},
	}
	for _, item := range seed {
		if err := statsRepo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("seed stats: %v", err)
		}
	}
	service := NewPricingService(memory.NewPlayerRepository(nil), statsRepo, logging.NewNop())

	changed, err := service.UpdatePlayerPrices(t.Context())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if changed != 3 {
		t.Fatalf("expected 3 repriced players, got %d", changed)
	}

	checks := []struct {
		playerID  string
		wantPrice float64
		wantDelta float64
	}{
		{"hot", 8.3, 0.3},
		{"cold", 4.7, -0.3},
		{"flat", 6.0, 0},
		{"fresh", 4.5, 0},
		{"capped", 15.0, 0.3},
	}
	for _, check := range checks {
		stats, ok, err := statsRepo.Get(t.Context(), check.playerID)
		if err != nil || !ok {
			t.Fatalf("player %s: ok=%v err=%v", check.playerID, ok, err)
		}
		if math.Abs(stats.Price-check.wantPrice) > 1e-9 {
			t.Fatalf("player %s: expected price %v, got %v", check.playerID, check.wantPrice, stats.Price)
		}
		if math.Abs(stats.LastPriceDelta-check.wantDelta) > 1e-9 {
			t.Fatalf("player %s: expected delta %v, got %v", check.playerID, check.wantDelta, stats.LastPriceDelta)
		}
	}
}
