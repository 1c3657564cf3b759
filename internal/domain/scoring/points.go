package scoring

import "github.com/schoolleague/fantasy-engine/internal/domain/player"

const (
	fullAppearanceMinutes = 60

	assistPoints        = 3
	cleanSheetDefensive = 4
	cleanSheetMidfield  = 1
	winPoints           = 2
	drawPoints          = 1
	yellowCardPenalty   = -1
	redCardPenalty      = -3
	concededPenalty     = -1
	penaltySavePoints   = 5
	penaltyMissPenalty  = -2
)

var goalPointsByPosition = map[player.Position]int{
	player.PositionGoalkeeper: 10,
	player.PositionDefender:   6,
	player.PositionMidfielder: 5,
	player.PositionForward:    4,
}

// ComputePoints turns one player's match statistics into fantasy points.
// Every rule is independent and summed; the result may be negative. Captain
// doubling is the caller's concern, applied to the returned total.
func ComputePoints(stats MatchStatistics) int {
	points := 0

	switch {
	case stats.MinutesPlayed >= fullAppearanceMinutes:
		points += 2
	case stats.MinutesPlayed > 0:
		points++
	}

	points += stats.Goals * goalPointsByPosition[stats.Position]
	points += stats.Assists * assistPoints

	if stats.CleanSheet {
		switch stats.Position {
		case player.PositionGoalkeeper, player.PositionDefender:
			points += cleanSheetDefensive
		case player.PositionMidfielder:
			points += cleanSheetMidfield
		}
	}

	// Win and draw bonuses are mutually exclusive.
	if stats.TeamWon {
		points += winPoints
	} else if stats.TeamDrew {
		points += drawPoints
	}

	points += stats.YellowCards * yellowCardPenalty
	points += stats.RedCards * redCardPenalty

	// Flat penalty once the keeper concedes twice, not scaled further.
	if stats.Position == player.PositionGoalkeeper && stats.GoalsConceded >= 2 {
		points += concededPenalty
	}

	if stats.PenaltySaved {
		points += penaltySavePoints
	}
	if stats.PenaltyMissed {
		points += penaltyMissPenalty
	}

	return points
}
