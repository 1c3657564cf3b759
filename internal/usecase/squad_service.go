package usecase

import (
	"context"
	"fmt"

	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
)

// SquadService is the validation entry point the team-builder collaborator
// calls. It never fails for rule violations; those come back as a Result with
// every violation listed.
type SquadService struct {
	teamRepo fantasy.Repository
	logger   *logging.Logger
}

func NewSquadService(teamRepo fantasy.Repository, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SquadService{teamRepo: teamRepo, logger: logger}
}

// ValidateTeam runs the full aggregate check over a candidate team.
func (s *SquadService) ValidateTeam(ctx context.Context, name string, members []fantasy.SquadMember, formation fantasy.Formation) fantasy.Result {
	_, span := startUsecaseSpan(ctx, "usecase.SquadService.ValidateTeam")
	defer span.End()

	return fantasy.ValidateTeam(name, members, formation, fantasy.InitialBudget)
}

// ValidateAddition checks one prospective pick against a stored team's
// current squad.
func (s *SquadService) ValidateAddition(ctx context.Context, teamID string, newMember fantasy.SquadMember) (fantasy.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.ValidateAddition")
	defer span.End()

	team, ok, err := s.teamRepo.Get(ctx, teamID)
	if err != nil {
		return fantasy.Result{}, fmt.Errorf("get team for addition check: %w", err)
	}
	if !ok {
		return fantasy.Result{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	return fantasy.ValidatePlayerAddition(team.Members, newMember, team.Formation, fantasy.InitialBudget), nil
}

// ValidateTransfer checks a like-for-like swap against the team's remaining
// budget.
func (s *SquadService) ValidateTransfer(ctx context.Context, teamID string, playerOut, playerIn fantasy.SquadMember) (fantasy.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.ValidateTransfer")
	defer span.End()

	team, ok, err := s.teamRepo.Get(ctx, teamID)
	if err != nil {
		return fantasy.Result{}, fmt.Errorf("get team for transfer check: %w", err)
	}
	if !ok {
		return fantasy.Result{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	return fantasy.ValidateTransfer(playerOut, playerIn, team.BudgetRemaining), nil
}

// GetTeam returns one stored fantasy team.
func (s *SquadService) GetTeam(ctx context.Context, teamID string) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetTeam")
	defer span.End()

	team, ok, err := s.teamRepo.Get(ctx, teamID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return fantasy.Team{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	return team, nil
}
