package gameweek

import "time"

// PlayerBreakdown records one squad member's contribution inside a history
// snapshot.
type PlayerBreakdown struct {
	PlayerID  string
	Points    int
	IsCaptain bool
}

// History is the append-only per-(team, gameweek) snapshot written at
// gameweek close. Created once, never mutated.
type History struct {
	TeamID        string
	Gameweek      int
	Points        int
	Rank          int
	TransfersUsed int
	Breakdown     []PlayerBreakdown
	ClosedAt      time.Time
}
