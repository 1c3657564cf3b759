package player

import "context"

// Repository describes player pool reads used by the engine.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
}

// FantasyStatsRepository persists per-player fantasy state (price, points, form).
type FantasyStatsRepository interface {
	Get(ctx context.Context, playerID string) (FantasyStats, bool, error)
	List(ctx context.Context) ([]FantasyStats, error)
	Upsert(ctx context.Context, stats FantasyStats) error
	// ApplyMatchPoints adds one match's base points to the player's gameweek
	// and season totals in a single update.
	ApplyMatchPoints(ctx context.Context, playerID string, points int) error
}
