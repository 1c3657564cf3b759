package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

type FantasyStatsRepository struct {
	db *sqlx.DB
}

func NewFantasyStatsRepository(db *sqlx.DB) *FantasyStatsRepository {
	return &FantasyStatsRepository{db: db}
}

const fantasyStatsColumns = `
player_id, position, price, total_points, gameweek_points, popularity,
form_history, last_price_delta, updated_at`

func (r *FantasyStatsRepository) Get(ctx context.Context, playerID string) (player.FantasyStats, bool, error) {
	query := `SELECT ` + fantasyStatsColumns + `
FROM player_fantasy_stats
WHERE player_id = $1`

	var row fantasyStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		if isNotFound(err) {
			return player.FantasyStats{}, false, nil
		}
		return player.FantasyStats{}, false, fmt.Errorf("get fantasy stats: %w", err)
	}

	stats, err := toDomainFantasyStats(row)
	if err != nil {
		return player.FantasyStats{}, false, err
	}
	return stats, true, nil
}

func (r *FantasyStatsRepository) List(ctx context.Context) ([]player.FantasyStats, error) {
	query := `SELECT ` + fantasyStatsColumns + `
FROM player_fantasy_stats
ORDER BY player_id`

	var rows []fantasyStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list fantasy stats: %w", err)
	}

	out := make([]player.FantasyStats, 0, len(rows))
	for _, row := range rows {
		stats, err := toDomainFantasyStats(row)
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

func (r *FantasyStatsRepository) Upsert(ctx context.Context, stats player.FantasyStats) error {
	formHistory, err := jsonbColumn(stats.FormHistory)
	if err != nil {
		return fmt.Errorf("encode form history for player %s: %w", stats.PlayerID, err)
	}

	const query = `
INSERT INTO player_fantasy_stats (
    player_id, position, price, total_points, gameweek_points, popularity,
    form_history, last_price_delta
) VALUES (
    :player_id, :position, :price, :total_points, :gameweek_points, :popularity,
    :form_history, :last_price_delta
)
ON CONFLICT (player_id)
DO UPDATE SET
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    total_points = EXCLUDED.total_points,
    gameweek_points = EXCLUDED.gameweek_points,
    popularity = EXCLUDED.popularity,
    form_history = EXCLUDED.form_history,
    last_price_delta = EXCLUDED.last_price_delta,
    updated_at = NOW()`

	upsertSQL, args, err := sqlx.Named(query, map[string]any{
		"player_id":        stats.PlayerID,
		"position":         string(stats.Position),
		"price":            stats.Price,
		"total_points":     stats.TotalPoints,
		"gameweek_points":  stats.GameweekPoints,
		"popularity":       stats.Popularity,
		"form_history":     formHistory,
		"last_price_delta": stats.LastPriceDelta,
	})
	if err != nil {
		return fmt.Errorf("bind upsert fantasy stats query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)
	if _, err := r.db.ExecContext(ctx, upsertSQL, args...); err != nil {
		return fmt.Errorf("upsert fantasy stats: %w", err)
	}
	return nil
}

func (r *FantasyStatsRepository) ApplyMatchPoints(ctx context.Context, playerID string, points int) error {
	const query = `
UPDATE player_fantasy_stats
SET total_points = total_points + $1,
    gameweek_points = gameweek_points + $1,
    updated_at = NOW()
WHERE player_id = $2`

	result, err := r.db.ExecContext(ctx, query, points, playerID)
	if err != nil {
		return fmt.Errorf("apply match points for player %s: %w", playerID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply match points for player %s: %w", playerID, err)
	}
	if affected == 0 {
		return fmt.Errorf("apply match points: player %s has no fantasy stats", playerID)
	}
	return nil
}

func toDomainFantasyStats(row fantasyStatsTableModel) (player.FantasyStats, error) {
	formHistory, err := fromJSONBColumn[[]int](row.FormHistory)
	if err != nil {
		return player.FantasyStats{}, fmt.Errorf("decode form history for player %s: %w", row.PlayerID, err)
	}

	return player.FantasyStats{
		PlayerID:       row.PlayerID,
		Position:       player.Position(row.Position),
		Price:          row.Price,
		TotalPoints:    row.TotalPoints,
		GameweekPoints: row.GameweekPoints,
		Popularity:     row.Popularity,
		FormHistory:    formHistory,
		LastPriceDelta: row.LastPriceDelta,
	}, nil
}
