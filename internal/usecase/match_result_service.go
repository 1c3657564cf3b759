package usecase

import (
	"context"
	"strings"

	"github.com/schoolleague/fantasy-engine/internal/domain/match"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/domain/scoring"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

// MatchResultService turns a completed match's result record into normalized
// per-player statistics. Only players with at least one recorded involvement
// (goal, assist, or card) receive a record; there is no independent minutes
// source, so involvement is the play-detection signal and minutes are fixed.
type MatchResultService struct {
	logger *logging.Logger
}

const assumedMinutesPlayed = 90

func NewMatchResultService(logger *logging.Logger) *MatchResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchResultService{logger: logger}
}

// ExtractPlayerStats maps one result onto MatchStatistics keyed by player id.
// Event entries that cannot be matched to a roster player are logged and
// skipped; they never abort the extraction.
func (s *MatchResultService) ExtractPlayerStats(
	ctx context.Context,
	result match.Result,
	homeRoster, awayRoster []player.Player,
) map[string]scoring.MatchStatistics {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.ExtractPlayerStats")
	defer span.End()

	stats := make(map[string]scoring.MatchStatistics)

	s.extractSide(ctx, stats, sideInput{
		matchID:      result.MatchID,
		roster:       homeRoster,
		scorers:      result.HomeScorers,
		yellowCards:  result.HomeYellowCards,
		redCards:     result.HomeRedCards,
		goalsFor:     result.HomeScore,
		goalsAgainst: result.AwayScore,
	})
	s.extractSide(ctx, stats, sideInput{
		matchID:      result.MatchID,
		roster:       awayRoster,
		scorers:      result.AwayScorers,
		yellowCards:  result.AwayYellowCards,
		redCards:     result.AwayRedCards,
		goalsFor:     result.AwayScore,
		goalsAgainst: result.HomeScore,
	})

	return stats
}

type sideInput struct {
	matchID      string
	roster       []player.Player
	scorers      []match.GoalEvent
	yellowCards  []match.CardEvent
	redCards     []match.CardEvent
	goalsFor     int
	goalsAgainst int
}

func (s *MatchResultService) extractSide(ctx context.Context, stats map[string]scoring.MatchStatistics, in sideInput) {
	index := newRosterIndex(in.roster)

	won := in.goalsFor > in.goalsAgainst
	drew := in.goalsFor == in.goalsAgainst
	cleanSheet := in.goalsAgainst == 0

	apply := func(p player.Player, mutate func(*scoring.MatchStatistics)) {
		record, ok := stats[p.ID]
		if !ok {
			record = scoring.MatchStatistics{
				PlayerID:      p.ID,
				MatchID:       in.matchID,
				Position:      p.Position,
				MinutesPlayed: assumedMinutesPlayed,
				CleanSheet:    cleanSheet,
				TeamWon:       won,
				TeamDrew:      drew,
				GoalsConceded: in.goalsAgainst,
			}
		}
		mutate(&record)
		stats[p.ID] = record
	}

	for _, goal := range in.scorers {
		scorer, ok := index.resolve(goal.PlayerID, goal.PlayerName)
		if !ok {
			s.logger.WarnContext(ctx, "goal scorer not found in roster, skipping",
				"match_id", in.matchID, "player_name", goal.PlayerName)
		} else {
			apply(scorer, func(r *scoring.MatchStatistics) { r.Goals++ })
		}

		if goal.AssistName == "" {
			continue
		}
		assister, ok := index.resolve("", goal.AssistName)
		if !ok {
			s.logger.WarnContext(ctx, "assist provider not found in roster, skipping",
				"match_id", in.matchID, "player_name", goal.AssistName)
			continue
		}
		apply(assister, func(r *scoring.MatchStatistics) { r.Assists++ })
	}

	for _, card := range in.yellowCards {
		holder, ok := index.resolve(card.PlayerID, card.PlayerName)
		if !ok {
			s.logger.WarnContext(ctx, "yellow card holder not found in roster, skipping",
				"match_id", in.matchID, "player_name", card.PlayerName)
			continue
		}
		apply(holder, func(r *scoring.MatchStatistics) { r.YellowCards++ })
	}

	for _, card := range in.redCards {
		holder, ok := index.resolve(card.PlayerID, card.PlayerName)
		if !ok {
			s.logger.WarnContext(ctx, "red card holder not found in roster, skipping",
				"match_id", in.matchID, "player_name", card.PlayerName)
			continue
		}
		apply(holder, func(r *scoring.MatchStatistics) { r.RedCards++ })
	}
}

type rosterIndex struct {
	byID   map[string]player.Player
	byName map[string]player.Player
}

func newRosterIndex(roster []player.Player) rosterIndex {
	index := rosterIndex{
		byID:   make(map[string]player.Player, len(roster)),
		byName: make(map[string]player.Player, len(roster)),
	}
	for _, p := range roster {
		index.byID[p.ID] = p
		index.byName[normalizeName(p.Name)] = p
	}
	return index
}

func (i rosterIndex) resolve(playerID, playerName string) (player.Player, bool) {
	if playerID != "" {
		if p, ok := i.byID[playerID]; ok {
			return p, true
		}
	}
	p, ok := i.byName[normalizeName(playerName)]
	return p, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
