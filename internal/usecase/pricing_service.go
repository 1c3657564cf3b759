package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/domain/pricing"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

// PricingService owns the market: initial prices for players entering the
// pool and the form-driven batch repricing run at gameweek boundaries.
type PricingService struct {
	playerRepo player.Repository
	statsRepo  player.FantasyStatsRepository
	logger     *logging.Logger
}

func NewPricingService(
	playerRepo player.Repository,
	statsRepo player.FantasyStatsRepository,
	logger *logging.Logger,
) *PricingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PricingService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		logger:     logger,
	}
}

// SeedInitialPrices creates a fantasy stats record, priced from season
// output, for every pool player that does not have one yet. Returns how many
// records were created.
func (s *PricingService) SeedInitialPrices(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PricingService.SeedInitialPrices")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list players for initial pricing: %w", err)
	}

	created := 0
	for _, p := range players {
		_, exists, err := s.statsRepo.Get(ctx, p.ID)
		if err != nil {
			return created, fmt.Errorf("get fantasy stats for player %s: %w", p.ID, err)
		}
		if exists {
			continue
		}

		stats := player.FantasyStats{
			PlayerID: p.ID,
			Position: p.Position,
			Price:    pricing.CalculateInitialPrice(p),
		}
		if err := s.statsRepo.Upsert(ctx, stats); err != nil {
			return created, fmt.Errorf("create fantasy stats for player %s: %w", p.ID, err)
		}
		created++
	}

	s.logger.InfoContext(ctx, "initial prices seeded", "players_priced", created)
	return created, nil
}

// UpdatePlayerPrices runs the form-based repricing batch: for every player
// with a non-empty form history, compute the delta, round it to one decimal,
// and persist the clamped new price. Zero deltas are skipped entirely.
// Returns the count of players whose price actually changed.
func (s *PricingService) UpdatePlayerPrices(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PricingService.UpdatePlayerPrices")
	defer span.End()

	allStats, err := s.statsRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list fantasy stats for repricing: %w", err)
	}

	changed := 0
	for _, stats := range allStats {
		if len(stats.FormHistory) == 0 {
			continue
		}

		delta := roundToTenth(pricing.CalculatePriceChange(stats.FormHistory))
		if delta == 0 {
			continue
		}

		stats.Price = pricing.ApplyDelta(stats.Price, delta)
		stats.LastPriceDelta = delta
		if err := s.statsRepo.Upsert(ctx, stats); err != nil {
			s.logger.ErrorContext(ctx, "persist price change failed",
				"player_id", stats.PlayerID, "delta", delta, "error", err)
			continue
		}
		changed++
	}

	s.logger.InfoContext(ctx, "player prices updated", "players_changed", changed)
	return changed, nil
}

func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
