package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/schoolleague/fantasy-engine/internal/usecase"
)

const defaultLeaderboardLimit = 50

type leaderboardEntryDTO struct {
	TeamID         string `json:"teamId"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	TotalPoints    int    `json:"totalPoints"`
	GameweekPoints int    `json:"gameweekPoints"`
	Rank           int    `json:"rank"`
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	limit := defaultLeaderboardLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboardService.Leaderboard(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "read leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, leaderboardEntryDTO{
			TeamID:         e.TeamID,
			UserID:         e.UserID,
			Name:           e.Name,
			TotalPoints:    e.TotalPoints,
			GameweekPoints: e.GameweekPoints,
			Rank:           e.Rank,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type wildcardRequest struct {
	PointsGained int `json:"points_gained" validate:"min=0"`
	Gameweek     int `json:"gameweek" validate:"required,min=1"`
}

func (h *Handler) RecordWildcardOutcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordWildcardOutcome")
	defer span.End()

	teamID := r.PathValue("teamID")

	var req wildcardRequest
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

	if err := h.leaderboardService.AwardWildcardMaster(ctx, teamID, req.PointsGained, req.Gameweek); err != nil {
		h.logger.WarnContext(ctx, "record wildcard outcome failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"teamId":       teamID,
		"pointsGained": req.PointsGained,
	})
}
