package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/schoolleague/fantasy-engine/internal/domain/match"
	"github.com/schoolleague/fantasy-engine/internal/usecase"
)

type goalEventRequest struct {
	PlayerName string `json:"player_name" validate:"required"`
	PlayerID   string `json:"player_id"`
	AssistName string `json:"assist_name"`
}

type cardEventRequest struct {
	PlayerName string `json:"player_name" validate:"required"`
	PlayerID   string `json:"player_id"`
}

type processMatchRequest struct {
	Gameweek        int                `json:"gameweek" validate:"required,min=1"`
	HomeTeamID      string             `json:"home_team_id" validate:"required"`
	AwayTeamID      string             `json:"away_team_id" validate:"required"`
	HomeScore       int                `json:"home_score" validate:"min=0"`
	AwayScore       int                `json:"away_score" validate:"min=0"`
	HomeScorers     []goalEventRequest `json:"home_scorers" validate:"dive"`
	AwayScorers     []goalEventRequest `json:"away_scorers" validate:"dive"`
	HomeYellowCards []cardEventRequest `json:"home_yellow_cards" validate:"dive"`
	AwayYellowCards []cardEventRequest `json:"away_yellow_cards" validate:"dive"`
	HomeRedCards    []cardEventRequest `json:"home_red_cards" validate:"dive"`
	AwayRedCards    []cardEventRequest `json:"away_red_cards" validate:"dive"`
}

type teamUpdateResultDTO struct {
	MatchID      string                 `json:"matchId"`
	TeamsTotal   int                    `json:"teamsTotal"`
	TeamsUpdated int                    `json:"teamsUpdated"`
	TeamsSkipped int                    `json:"teamsSkipped"`
	TeamsFailed  int                    `json:"teamsFailed"`
	Failures     []teamUpdateFailureDTO `json:"failures,omitempty"`
}

type teamUpdateFailureDTO struct {
	TeamID string `json:"teamId"`
	Error  string `json:"error"`
}

func (h *Handler) ProcessMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req processMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchDayService.ProcessResult(ctx, toMatchResult(matchID, req), req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "process match result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamUpdateResultToDTO(result))
}

func (h *Handler) CloseGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseGameweek")
	defer span.End()

	gw, err := strconv.Atoi(r.PathValue("gameweek"))
	if err != nil || gw < 1 {
		writeError(ctx, w, fmt.Errorf("%w: gameweek must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	created, err := h.leaderboardService.CloseGameweek(ctx, gw)
	if err != nil {
		h.logger.WarnContext(ctx, "close gameweek failed", "gameweek", gw, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"gameweek":         gw,
		"snapshotsCreated": created,
	})
}

func toMatchResult(matchID string, req processMatchRequest) match.Result {
	return match.Result{
		MatchID:         matchID,
		HomeTeamID:      req.HomeTeamID,
		AwayTeamID:      req.AwayTeamID,
		HomeScore:       req.HomeScore,
		AwayScore:       req.AwayScore,
		HomeScorers:     toGoalEvents(req.HomeScorers),
		AwayScorers:     toGoalEvents(req.AwayScorers),
		HomeYellowCards: toCardEvents(req.HomeYellowCards),
		AwayYellowCards: toCardEvents(req.AwayYellowCards),
		HomeRedCards:    toCardEvents(req.HomeRedCards),
		AwayRedCards:    toCardEvents(req.AwayRedCards),
	}
}

func toGoalEvents(events []goalEventRequest) []match.GoalEvent {
	out := make([]match.GoalEvent, 0, len(events))
	for _, e := range events {
		out = append(out, match.GoalEvent{
			PlayerName: e.PlayerName,
			PlayerID:   e.PlayerID,
			AssistName: e.AssistName,
		})
	}
	return out
}

func toCardEvents(events []cardEventRequest) []match.CardEvent {
	out := make([]match.CardEvent, 0, len(events))
	for _, e := range events {
		out = append(out, match.CardEvent{
			PlayerName: e.PlayerName,
			PlayerID:   e.PlayerID,
		})
	}
	return out
}

func teamUpdateResultToDTO(result usecase.TeamUpdateResult) teamUpdateResultDTO {
	failures := make([]teamUpdateFailureDTO, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, teamUpdateFailureDTO{
			TeamID: f.TeamID,
			Error:  f.Err.Error(),
		})
	}
	return teamUpdateResultDTO{
		MatchID:      result.MatchID,
		TeamsTotal:   result.TeamsTotal,
		TeamsUpdated: result.TeamsUpdated,
		TeamsSkipped: result.TeamsSkipped,
		TeamsFailed:  result.TeamsFailed,
		Failures:     failures,
	}
}
