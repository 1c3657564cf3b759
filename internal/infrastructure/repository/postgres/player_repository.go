package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `
id, team_id, name, position, goals, assists, matches_played, yellow_cards,
red_cards, overall_rating, is_team_captain, created_at, updated_at`

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query := `SELECT ` + playerColumns + `
FROM players
ORDER BY id`

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	players := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, toDomainPlayer(row))
	}
	return players, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + playerColumns + `
FROM players
WHERE id IN (?)
ORDER BY id`
	query, args, err := sqlx.In(query, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("bind players by id query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	players := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, toDomainPlayer(row))
	}
	return players, nil
}

func toDomainPlayer(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.ID,
		TeamID:   row.TeamID,
		Name:     row.Name,
		Position: player.Position(row.Position),
		SeasonStats: player.SeasonStats{
			Goals:         row.Goals,
			Assists:       row.Assists,
			MatchesPlayed: row.MatchesPlayed,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
		},
		OverallRating: row.OverallRating,
		IsTeamCaptain: row.IsTeamCaptain,
	}
}
