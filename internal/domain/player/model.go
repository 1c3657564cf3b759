package player

import "fmt"

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// SeasonStats carries the season aggregates collaborators record for a player.
type SeasonStats struct {
	Goals         int
	Assists       int
	MatchesPlayed int
	YellowCards   int
	RedCards      int
}

// Player is a real athlete from the school league pool.
type Player struct {
	ID            string
	TeamID        string
	Name          string
	Position      Position
	SeasonStats   SeasonStats
	OverallRating int
	IsTeamCaptain bool
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}

const (
	// FormWindow bounds the rolling per-gameweek points history.
	FormWindow = 5

	MinPrice = 4.0
	MaxPrice = 15.0
)

// FantasyStats is the fantasy-side state tracked per real player.
type FantasyStats struct {
	PlayerID       string
	Position       Position
	Price          float64
	TotalPoints    int
	GameweekPoints int
	Popularity     int
	FormHistory    []int
	LastPriceDelta float64
}

// PushForm appends one gameweek total and keeps only the most recent
// FormWindow entries.
func (s *FantasyStats) PushForm(points int) {
	s.FormHistory = append(s.FormHistory, points)
	if len(s.FormHistory) > FormWindow {
		s.FormHistory = s.FormHistory[len(s.FormHistory)-FormWindow:]
	}
}
