package scoring

import "github.com/schoolleague/fantasy-engine/internal/domain/player"

// MatchStatistics is one player's normalized involvement in one completed
// match. Records are derived once per match and never mutated afterwards.
type MatchStatistics struct {
	PlayerID      string
	MatchID       string
	Position      player.Position
	MinutesPlayed int
	Goals         int
	Assists       int
	CleanSheet    bool
	TeamWon       bool
	TeamDrew      bool
	YellowCards   int
	RedCards      int
	GoalsConceded int
	PenaltySaved  bool
	PenaltyMissed bool
}
