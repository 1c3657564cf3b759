package badge

import "time"

// Type is the closed set of badge identifiers a user can earn.
type Type string

const (
	TypeTop10Week      Type = "top_10_week"
	TypePodium         Type = "podium"
	TypeCentury        Type = "century"
	TypePerfectCaptain Type = "perfect_captain"
	TypeChampion       Type = "champion"
	TypeWinningStreak  Type = "winning_streak"
	TypeWildcardMaster Type = "wildcard_master"
)

var AllTypes = map[Type]struct{}{
	TypeTop10Week:      {},
	TypePodium:         {},
	TypeCentury:        {},
	TypePerfectCaptain: {},
	TypeChampion:       {},
	TypeWinningStreak:  {},
	TypeWildcardMaster: {},
}

// Badge is one earned award. A (UserID, Type) pair exists at most once and is
// never revoked.
type Badge struct {
	UserID   string
	Type     Type
	EarnedAt time.Time
	Gameweek int
	Metadata map[string]any
}
