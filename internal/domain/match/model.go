package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Match is one scheduled real-world fixture from the school league calendar.
type Match struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	Status     string
	HomeScore  *int
	AwayScore  *int
}

// GoalEvent is one recorded goal: the scorer, and optionally who assisted.
// Collaborators record events by display name; ids are present only when the
// recording UI resolved the name itself.
type GoalEvent struct {
	PlayerName string
	PlayerID   string
	AssistName string
}

// CardEvent is one recorded booking or dismissal.
type CardEvent struct {
	PlayerName string
	PlayerID   string
}

// Result is a completed match's record as produced by the results
// collaborator: final score plus per-side event lists.
type Result struct {
	MatchID         string
	HomeTeamID      string
	AwayTeamID      string
	HomeScore       int
	AwayScore       int
	HomeScorers     []GoalEvent
	AwayScorers     []GoalEvent
	HomeYellowCards []CardEvent
	AwayYellowCards []CardEvent
	HomeRedCards    []CardEvent
	AwayRedCards    []CardEvent
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET":
		return true
	default:
		return false
	}
}
