package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/schoolleague/fantasy-engine/internal/domain/gameweek"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

// AppendIfAbsent relies on the unique (team_id, gameweek) index to keep the
// history append-only: a snapshot already present is never rewritten.
func (r *GameweekRepository) AppendIfAbsent(ctx context.Context, h gameweek.History) (bool, error) {
	breakdown, err := jsonbColumn(h.Breakdown)
	if err != nil {
		return false, fmt.Errorf("encode gameweek breakdown: %w", err)
	}

	const query = `
INSERT INTO gameweek_history (team_id, gameweek, points, rank, transfers_used, breakdown, closed_at)
VALUES (:team_id, :gameweek, :points, :rank, :transfers_used, :breakdown, :closed_at)
ON CONFLICT (team_id, gameweek) DO NOTHING`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"team_id":        h.TeamID,
		"gameweek":       h.Gameweek,
		"points":         h.Points,
		"rank":           h.Rank,
		"transfers_used": h.TransfersUsed,
		"breakdown":      breakdown,
		"closed_at":      h.ClosedAt.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("bind append history query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	result, err := r.db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return false, fmt.Errorf("append gameweek history team=%s gw=%d: %w", h.TeamID, h.Gameweek, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append gameweek history team=%s gw=%d: %w", h.TeamID, h.Gameweek, err)
	}
	return affected > 0, nil
}

func (r *GameweekRepository) ListByTeam(ctx context.Context, teamID string, limit int) ([]gameweek.History, error) {
	query := `
SELECT team_id, gameweek, points, rank, transfers_used, breakdown, closed_at
FROM gameweek_history
WHERE team_id = $1
ORDER BY gameweek DESC`
	args := []any{teamID}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	var rows []struct {
		TeamID        string    `db:"team_id"`
		Gameweek      int       `db:"gameweek"`
		Points        int       `db:"points"`
		Rank          int       `db:"rank"`
		TransfersUsed int       `db:"transfers_used"`
		Breakdown     []byte    `db:"breakdown"`
		ClosedAt      time.Time `db:"closed_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list gameweek history team=%s: %w", teamID, err)
	}

	history := make([]gameweek.History, 0, len(rows))
	for _, row := range rows {
		breakdown, err := fromJSONBColumn[[]gameweek.PlayerBreakdown](row.Breakdown)
		if err != nil {
			return nil, fmt.Errorf("decode gameweek breakdown team=%s gw=%d: %w", row.TeamID, row.Gameweek, err)
		}
		history = append(history, gameweek.History{
			TeamID:        row.TeamID,
			Gameweek:      row.Gameweek,
			Points:        row.Points,
			Rank:          row.Rank,
			TransfersUsed: row.TransfersUsed,
			Breakdown:     breakdown,
			ClosedAt:      row.ClosedAt,
		})
	}
	return history, nil
}
