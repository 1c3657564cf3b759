package postgres

import "time"

type teamTableModel struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	Formation       string    `db:"formation"`
	BudgetRemaining float64   `db:"budget_remaining"`
	TotalPoints     int       `db:"total_points"`
	GameweekPoints  int       `db:"gameweek_points"`
	OverallRank     int       `db:"overall_rank"`
	WeeklyRank      int       `db:"weekly_rank"`
	Transfers       int       `db:"transfers"`
	WildcardUsed    bool      `db:"wildcard_used"`
	Badges          []byte    `db:"badges"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type teamMemberTableModel struct {
	TeamID         string  `db:"team_id"`
	PlayerID       string  `db:"player_id"`
	Position       string  `db:"position"`
	Price          float64 `db:"price"`
	TotalPoints    int     `db:"total_points"`
	GameweekPoints int     `db:"gameweek_points"`
	IsCaptain      bool    `db:"is_captain"`
}
