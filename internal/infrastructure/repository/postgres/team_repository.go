package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `
id, user_id, name, formation, budget_remaining, total_points, gameweek_points,
overall_rank, weekly_rank, transfers, wildcard_used, badges, created_at, updated_at`

func (r *TeamRepository) Get(ctx context.Context, teamID string) (fantasy.Team, bool, error) {
	teamQuery := `SELECT ` + teamColumns + `
FROM fantasy_teams
WHERE id = $1`

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, teamQuery, teamID); err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("get fantasy team: %w", err)
	}

	const membersQuery = `
SELECT team_id, player_id, position, price, total_points, gameweek_points, is_captain
FROM fantasy_team_members
WHERE team_id = $1
ORDER BY player_id`

	var memberRows []teamMemberTableModel
	if err := r.db.SelectContext(ctx, &memberRows, membersQuery, teamID); err != nil {
		return fantasy.Team{}, false, fmt.Errorf("list team members: %w", err)
	}

	team, err := toDomainTeam(row, memberRows)
	if err != nil {
		return fantasy.Team{}, false, err
	}
	return team, true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]fantasy.Team, error) {
	teamsQuery := `SELECT ` + teamColumns + `
FROM fantasy_teams
ORDER BY id`

	var teamRows []teamTableModel
	if err := r.db.SelectContext(ctx, &teamRows, teamsQuery); err != nil {
		return nil, fmt.Errorf("list fantasy teams: %w", err)
	}
	if len(teamRows) == 0 {
		return nil, nil
	}

	const membersQuery = `
SELECT team_id, player_id, position, price, total_points, gameweek_points, is_captain
FROM fantasy_team_members
ORDER BY team_id, player_id`

	var memberRows []teamMemberTableModel
	if err := r.db.SelectContext(ctx, &memberRows, membersQuery); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	membersByTeam := make(map[string][]teamMemberTableModel, len(teamRows))
	for _, m := range memberRows {
		membersByTeam[m.TeamID] = append(membersByTeam[m.TeamID], m)
	}

	teams := make([]fantasy.Team, 0, len(teamRows))
	for _, row := range teamRows {
		team, err := toDomainTeam(row, membersByTeam[row.ID])
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// Update replaces the team row and its member rows in one transaction, so a
// point batch either lands completely for a team or not at all.
func (r *TeamRepository) Update(ctx context.Context, team fantasy.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	badges, err := jsonbColumn(team.Badges)
	if err != nil {
		return fmt.Errorf("encode team badges: %w", err)
	}

	const upsertTeamQuery = `
INSERT INTO fantasy_teams (
    id, user_id, name, formation, budget_remaining, total_points,
    gameweek_points, overall_rank, weekly_rank, transfers, wildcard_used, badges
) VALUES (
    :id, :user_id, :name, :formation, :budget_remaining, :total_points,
    :gameweek_points, :overall_rank, :weekly_rank, :transfers, :wildcard_used, :badges
)
ON CONFLICT (id)
DO UPDATE SET
    user_id = EXCLUDED.user_id,
    name = EXCLUDED.name,
    formation = EXCLUDED.formation,
    budget_remaining = EXCLUDED.budget_remaining,
    total_points = EXCLUDED.total_points,
    gameweek_points = EXCLUDED.gameweek_points,
    overall_rank = EXCLUDED.overall_rank,
    weekly_rank = EXCLUDED.weekly_rank,
    transfers = EXCLUDED.transfers,
    wildcard_used = EXCLUDED.wildcard_used,
    badges = EXCLUDED.badges,
    updated_at = NOW()`

	upsertSQL, upsertArgs, err := sqlx.Named(upsertTeamQuery, map[string]any{
		"id":               team.ID,
		"user_id":          team.UserID,
		"name":             team.Name,
		"formation":        string(team.Formation),
		"budget_remaining": team.BudgetRemaining,
		"total_points":     team.TotalPoints,
		"gameweek_points":  team.GameweekPoints,
		"overall_rank":     team.OverallRank,
		"weekly_rank":      team.WeeklyRank,
		"transfers":        team.Transfers,
		"wildcard_used":    team.WildcardUsed,
		"badges":           badges,
	})
	if err != nil {
		return fmt.Errorf("bind upsert team query: %w", err)
	}
	upsertSQL = tx.Rebind(upsertSQL)
	if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
		return fmt.Errorf("upsert fantasy team: %w", err)
	}

	const clearMembersQuery = `DELETE FROM fantasy_team_members WHERE team_id = $1`
	if _, err := tx.ExecContext(ctx, tx.Rebind(clearMembersQuery), team.ID); err != nil {
		return fmt.Errorf("clear team members: %w", err)
	}

	const insertMemberQuery = `
INSERT INTO fantasy_team_members (
    team_id, player_id, position, price, total_points, gameweek_points, is_captain
) VALUES (:team_id, :player_id, :position, :price, :total_points, :gameweek_points, :is_captain)`

	for _, member := range team.Members {
		memberSQL, memberArgs, err := sqlx.Named(insertMemberQuery, map[string]any{
			"team_id":         team.ID,
			"player_id":       member.PlayerID,
			"position":        string(member.Position),
			"price":           member.Price,
			"total_points":    member.TotalPoints,
			"gameweek_points": member.GameweekPoints,
			"is_captain":      member.IsCaptain,
		})
		if err != nil {
			return fmt.Errorf("bind insert team member player=%s query: %w", member.PlayerID, err)
		}
		memberSQL = tx.Rebind(memberSQL)
		if _, err := tx.ExecContext(ctx, memberSQL, memberArgs...); err != nil {
			return fmt.Errorf("insert team member player=%s: %w", member.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team update tx: %w", err)
	}
	return nil
}

func toDomainTeam(row teamTableModel, memberRows []teamMemberTableModel) (fantasy.Team, error) {
	badges, err := fromJSONBColumn[[]string](row.Badges)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("decode badges for team %s: %w", row.ID, err)
	}

	members := make([]fantasy.SquadMember, 0, len(memberRows))
	for _, m := range memberRows {
		members = append(members, fantasy.SquadMember{
			PlayerID:       m.PlayerID,
			Position:       player.Position(m.Position),
			Price:          m.Price,
			TotalPoints:    m.TotalPoints,
			GameweekPoints: m.GameweekPoints,
			IsCaptain:      m.IsCaptain,
		})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].PlayerID < members[j].PlayerID
	})

	return fantasy.Team{
		ID:              row.ID,
		UserID:          row.UserID,
		Name:            row.Name,
		Formation:       fantasy.Formation(row.Formation),
		BudgetRemaining: row.BudgetRemaining,
		Members:         members,
		TotalPoints:     row.TotalPoints,
		GameweekPoints:  row.GameweekPoints,
		OverallRank:     row.OverallRank,
		WeeklyRank:      row.WeeklyRank,
		Transfers:       row.Transfers,
		WildcardUsed:    row.WildcardUsed,
		Badges:          badges,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
