package postgres

import "time"

type playerTableModel struct {
	ID            string    `db:"id"`
	TeamID        string    `db:"team_id"`
	Name          string    `db:"name"`
	Position      string    `db:"position"`
	Goals         int       `db:"goals"`
	Assists       int       `db:"assists"`
	MatchesPlayed int       `db:"matches_played"`
	YellowCards   int       `db:"yellow_cards"`
	RedCards      int       `db:"red_cards"`
	OverallRating int       `db:"overall_rating"`
	IsTeamCaptain bool      `db:"is_team_captain"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type fantasyStatsTableModel struct {
	PlayerID       string    `db:"player_id"`
	Position       string    `db:"position"`
	Price          float64   `db:"price"`
	TotalPoints    int       `db:"total_points"`
	GameweekPoints int       `db:"gameweek_points"`
	Popularity     int       `db:"popularity"`
	FormHistory    []byte    `db:"form_history"`
	LastPriceDelta float64   `db:"last_price_delta"`
	UpdatedAt      time.Time `db:"updated_at"`
}
