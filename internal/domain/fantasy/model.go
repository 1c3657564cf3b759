package fantasy

import (
	"time"

	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

// Formation names a (defender, midfielder, forward) slot template. Squads
// always carry exactly one goalkeeper on top of the six outfield slots.
type Formation string

const (
	Formation222 Formation = "2-2-2"
	Formation231 Formation = "2-3-1"
	Formation321 Formation = "3-2-1"
	Formation132 Formation = "1-3-2"
	Formation123 Formation = "1-2-3"
)

// SlotCounts is the per-position squad requirement derived from a formation.
type SlotCounts struct {
	Goalkeepers int
	Defenders   int
	Midfielders int
	Forwards    int
}

var formationSlots = map[Formation]SlotCounts{
	Formation222: {Goalkeepers: 1, Defenders: 2, Midfielders: 2, Forwards: 2},
	Formation231: {Goalkeepers: 1, Defenders: 2, Midfielders: 3, Forwards: 1},
	Formation321: {Goalkeepers: 1, Defenders: 3, Midfielders: 2, Forwards: 1},
	Formation132: {Goalkeepers: 1, Defenders: 1, Midfielders: 3, Forwards: 2},
	Formation123: {Goalkeepers: 1, Defenders: 1, Midfielders: 2, Forwards: 3},
}

// Slots returns the slot requirement for a formation. The second return is
// false for unknown formations; callers must check it before using the counts.
func (f Formation) Slots() (SlotCounts, bool) {
	slots, ok := formationSlots[f]
	return slots, ok
}

func (f Formation) Valid() bool {
	_, ok := formationSlots[f]
	return ok
}

func (c SlotCounts) ForPosition(pos player.Position) int {
	switch pos {
	case player.PositionGoalkeeper:
		return c.Goalkeepers
	case player.PositionDefender:
		return c.Defenders
	case player.PositionMidfielder:
		return c.Midfielders
	case player.PositionForward:
		return c.Forwards
	default:
		return 0
	}
}

const (
	// SquadSize is the fixed member count: one goalkeeper plus six outfield.
	SquadSize = 7

	// InitialBudget is the budget-unit allowance every team starts with.
	InitialBudget = 100.0
)

// SquadMember is one selected player inside a fantasy team.
type SquadMember struct {
	PlayerID       string
	Position       player.Position
	Price          float64
	TotalPoints    int
	GameweekPoints int
	IsCaptain      bool
}

// Team is a user's fantasy team. Point fields are mutated only by the team
// updater; squad composition only by transfer operations.
type Team struct {
	ID              string
	UserID          string
	Name            string
	Formation       Formation
	BudgetRemaining float64
	Members         []SquadMember
	TotalPoints     int
	GameweekPoints  int
	OverallRank     int
	WeeklyRank      int
	Transfers       int
	WildcardUsed    bool
	Badges          []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Captain returns the current captain, if the squad has one.
func (t Team) Captain() (SquadMember, bool) {
	for _, m := range t.Members {
		if m.IsCaptain {
			return m, true
		}
	}
	return SquadMember{}, false
}

func (t Team) HasBadge(badgeType string) bool {
	for _, b := range t.Badges {
		if b == badgeType {
			return true
		}
	}
	return false
}
