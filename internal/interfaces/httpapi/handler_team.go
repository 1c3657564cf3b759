package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/usecase"
)

type squadMemberRequest struct {
	PlayerID  string  `json:"player_id" validate:"required"`
	Position  string  `json:"position" validate:"required,oneof=GK DEF MID FWD"`
	Price     float64 `json:"price" validate:"required"`
	IsCaptain bool    `json:"is_captain"`
}

type validateTeamRequest struct {
	Name      string               `json:"name" validate:"required"`
	Formation string               `json:"formation" validate:"required"`
	Members   []squadMemberRequest `json:"members" validate:"dive"`
}

type validationResultDTO struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

type squadMemberDTO struct {
	PlayerID       string  `json:"playerId"`
	Position       string  `json:"position"`
	Price          float64 `json:"price"`
	TotalPoints    int     `json:"totalPoints"`
	GameweekPoints int     `json:"gameweekPoints"`
	IsCaptain      bool    `json:"isCaptain"`
}

type teamDTO struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Name            string           `json:"name"`
	Formation       string           `json:"formation"`
	BudgetRemaining float64          `json:"budgetRemaining"`
	Members         []squadMemberDTO `json:"members"`
	TotalPoints     int              `json:"totalPoints"`
	GameweekPoints  int              `json:"gameweekPoints"`
	OverallRank     int              `json:"overallRank"`
	WeeklyRank      int              `json:"weeklyRank"`
	Transfers       int              `json:"transfers"`
	WildcardUsed    bool             `json:"wildcardUsed"`
	Badges          []string         `json:"badges,omitempty"`
}

func (h *Handler) ValidateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateTeam")
	defer span.End()

	var req validateTeamRequest
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

	members := make([]fantasy.SquadMember, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, fantasy.SquadMember{
			PlayerID:  m.PlayerID,
			Position:  player.Position(m.Position),
			Price:     m.Price,
			IsCaptain: m.IsCaptain,
		})
	}

	result := h.squadService.ValidateTeam(ctx, req.Name, members, fantasy.Formation(req.Formation))
	writeSuccess(ctx, w, http.StatusOK, validationResultDTO{
		Valid:  result.Valid,
		Errors: result.Errors,
	})
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	team, err := h.squadService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func teamToDTO(team fantasy.Team) teamDTO {
	members := make([]squadMemberDTO, 0, len(team.Members))
	for _, m := range team.Members {
		members = append(members, squadMemberDTO{
			PlayerID:       m.PlayerID,
			Position:       string(m.Position),
			Price:          m.Price,
			TotalPoints:    m.TotalPoints,
			GameweekPoints: m.GameweekPoints,
			IsCaptain:      m.IsCaptain,
		})
	}
	return teamDTO{
		ID:              team.ID,
		UserID:          team.UserID,
		Name:            team.Name,
		Formation:       string(team.Formation),
		BudgetRemaining: team.BudgetRemaining,
		Members:         members,
		TotalPoints:     team.TotalPoints,
		GameweekPoints:  team.GameweekPoints,
		OverallRank:     team.OverallRank,
		WeeklyRank:      team.WeeklyRank,
		Transfers:       team.Transfers,
		WildcardUsed:    team.WildcardUsed,
		Badges:          team.Badges,
	}
}
