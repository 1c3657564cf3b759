package memory

import (
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

const (
	TeamIDNorthLions  = "team-north-lions"
	TeamIDSouthEagles = "team-south-eagles"
)

// SeedPlayers returns a small two-school player pool for development and
// tests.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "lions-gk-01", TeamID: TeamIDNorthLions, Name: "Marco Peña", Position: player.PositionGoalkeeper, SeasonStats: player.SeasonStats{MatchesPlayed: 12}},
		{ID: "lions-def-01", TeamID: TeamIDNorthLions, Name: "Iker Sanz", Position: player.PositionDefender, SeasonStats: player.SeasonStats{Goals: 1, MatchesPlayed: 12}},
		{ID: "lions-def-02", TeamID: TeamIDNorthLions, Name: "Bruno Díaz", Position: player.PositionDefender, SeasonStats: player.SeasonStats{MatchesPlayed: 10, YellowCards: 3}},
		{ID: "lions-mid-01", TeamID: TeamIDNorthLions, Name: "Luca Romero", Position: player.PositionMidfielder, SeasonStats: player.SeasonStats{Goals: 4, Assists: 6, MatchesPlayed: 12}, IsTeamCaptain: true},
		{ID: "lions-mid-02", TeamID: TeamIDNorthLions, Name: "Teo Vidal", Position: player.PositionMidfielder, SeasonStats: player.SeasonStats{Goals: 2, Assists: 3, MatchesPlayed: 11}},
		{ID: "lions-fwd-01", TeamID: TeamIDNorthLions, Name: "Dani Costa", Position: player.PositionForward, SeasonStats: player.SeasonStats{Goals: 11, Assists: 2, MatchesPlayed: 12}, OverallRating: 82},
		{ID: "lions-fwd-02", TeamID: TeamIDNorthLions, Name: "Samu Ortega", Position: player.PositionForward, SeasonStats: player.SeasonStats{Goals: 6, MatchesPlayed: 12}},
		{ID: "eagles-gk-01", TeamID: TeamIDSouthEagles, Name: "Noel Ferrer", Position: player.PositionGoalkeeper, SeasonStats: player.SeasonStats{MatchesPlayed: 12}},
		{ID: "eagles-def-01", TeamID: TeamIDSouthEagles, Name: "Pau Soler", Position: player.PositionDefender, SeasonStats: player.SeasonStats{Goals: 2, MatchesPlayed: 12}},
		{ID: "eagles-def-02", TeamID: TeamIDSouthEagles, Name: "Joel Mas", Position: player.PositionDefender, SeasonStats: player.SeasonStats{MatchesPlayed: 9}},
		{ID: "eagles-mid-01", TeamID: TeamIDSouthEagles, Name: "Adri Pons", Position: player.PositionMidfielder, SeasonStats: player.SeasonStats{Goals: 3, Assists: 4, MatchesPlayed: 12}},
		{ID: "eagles-mid-02", TeamID: TeamIDSouthEagles, Name: "Marc Gil", Position: player.PositionMidfielder, SeasonStats: player.SeasonStats{Assists: 2, MatchesPlayed: 10}},
		{ID: "eagles-fwd-01", TeamID: TeamIDSouthEagles, Name: "Hugo Serra", Position: player.PositionForward, SeasonStats: player.SeasonStats{Goals: 9, Assists: 1, MatchesPlayed: 12}, OverallRating: 78, IsTeamCaptain: true},
		{ID: "eagles-fwd-02", TeamID: TeamIDSouthEagles, Name: "Leo Camps", Position: player.PositionForward, SeasonStats: player.SeasonStats{Goals: 4, MatchesPlayed: 11}},
	}
}

// SeedTeams returns fantasy teams that already satisfy the squad rules.
func SeedTeams() []fantasy.Team {
	return []fantasy.Team{
		{
			ID:        "ft-001",
			UserID:    "user-ana",
			Name:      "Ana All Stars",
			Formation: fantasy.Formation222,
			Members: []fantasy.SquadMember{
				{PlayerID: "lions-gk-01", Position: player.PositionGoalkeeper, Price: 4.5},
				{PlayerID: "lions-def-01", Position: player.PositionDefender, Price: 5.5},
				{PlayerID: "eagles-def-01", Position: player.PositionDefender, Price: 6.0},
				{PlayerID: "lions-mid-01", Position: player.PositionMidfielder, Price: 9.0},
				{PlayerID: "eagles-mid-01", Position: player.PositionMidfielder, Price: 7.5},
				{PlayerID: "lions-fwd-01", Position: player.PositionForward, Price: 11.0, IsCaptain: true},
				{PlayerID: "eagles-fwd-02", Position: player.PositionForward, Price: 7.0},
			},
			BudgetRemaining: fantasy.InitialBudget - 50.5,
		},
		{
			ID:        "ft-002",
			UserID:    "user-bruno",
			Name:      "Bruno Ballers",
			Formation: fantasy.Formation231,
			Members: []fantasy.SquadMember{
				{PlayerID: "eagles-gk-01", Position: player.PositionGoalkeeper, Price: 4.5},
				{PlayerID: "lions-def-02", Position: player.PositionDefender, Price: 5.0},
				{PlayerID: "eagles-def-02", Position: player.PositionDefender, Price: 5.0},
				{PlayerID: "lions-mid-02", Position: player.PositionMidfielder, Price: 7.0},
				{PlayerID: "eagles-mid-01", Position: player.PositionMidfielder, Price: 7.5},
				{PlayerID: "eagles-mid-02", Position: player.PositionMidfielder, Price: 6.0},
				{PlayerID: "eagles-fwd-01", Position: player.PositionForward, Price: 10.0, IsCaptain: true},
			},
			BudgetRemaining: fantasy.InitialBudget - 45.0,
		},
	}
}
