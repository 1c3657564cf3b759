package fantasy

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

// Result is the outcome of a squad validation pass. Validators never stop at
// the first violation; every applicable rule failure is collected so callers
// can surface all problems at once.
type Result struct {
	Valid  bool
	Errors []string
}

func valid() Result {
	return Result{Valid: true}
}

func invalid(errs ...string) Result {
	return Result{Valid: false, Errors: errs}
}

func merge(results ...Result) Result {
	out := Result{Valid: true}
	for _, r := range results {
		if !r.Valid {
			out.Valid = false
			out.Errors = append(out.Errors, r.Errors...)
		}
	}
	return out
}

const (
	teamNameMinLength  = 3
	teamNameMaxLength  = 30
	forbiddenNameRunes = `<>{}[]\/`
)

// ValidateBudget checks the squad's total cost against the budget. An empty
// squad passes; a squad with any non-positive or undefined price fails.
func ValidateBudget(members []SquadMember, budget float64) Result {
	var errs []string
	total := 0.0
	for _, m := range members {
		if math.IsNaN(m.Price) || math.IsInf(m.Price, 0) || m.Price <= 0 {
			errs = append(errs, fmt.Sprintf("player %s has an invalid price", m.PlayerID))
			continue
		}
		total += m.Price
	}
	if total > budget {
		errs = append(errs, fmt.Sprintf("squad cost %.1f exceeds budget %.1f", total, budget))
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateFormation checks membership in the closed formation set.
func ValidateFormation(formation Formation) Result {
	if !formation.Valid() {
		return invalid(fmt.Sprintf("unknown formation %q", formation))
	}
	return valid()
}

// ValidateSquad checks squad size, per-position counts against the formation,
// captain uniqueness, and player uniqueness.
func ValidateSquad(members []SquadMember, formation Formation) Result {
	slots, ok := formation.Slots()
	if !ok {
		// Report instead of indexing an unknown formation.
		return invalid(fmt.Sprintf("unknown formation %q", formation))
	}

	var errs []string
	if len(members) != SquadSize {
		errs = append(errs, fmt.Sprintf("squad must have exactly %d players, got %d", SquadSize, len(members)))
	}

	captains := 0
	seen := make(map[string]struct{}, len(members))
	counts := make(map[player.Position]int, 4)
	for _, m := range members {
		if m.IsCaptain {
			captains++
		}
		if _, dup := seen[m.PlayerID]; dup {
			errs = append(errs, fmt.Sprintf("player %s appears more than once", m.PlayerID))
		}
		seen[m.PlayerID] = struct{}{}
		counts[m.Position]++
	}

	if captains != 1 {
		errs = append(errs, fmt.Sprintf("squad must have exactly one captain, got %d", captains))
	}

	for _, pos := range []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionForward,
	} {
		required := slots.ForPosition(pos)
		if counts[pos] != required {
			errs = append(errs, fmt.Sprintf("formation %s requires %d %s, got %d", formation, required, pos, counts[pos]))
		}
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidatePlayerAddition checks whether one more player fits the current
// squad: no duplicate id, budget headroom, and a free slot for the position.
func ValidatePlayerAddition(current []SquadMember, newMember SquadMember, formation Formation, budget float64) Result {
	slots, ok := formation.Slots()
	if !ok {
		return invalid(fmt.Sprintf("unknown formation %q", formation))
	}

	var errs []string
	total := 0.0
	positionCount := 0
	for _, m := range current {
		if m.PlayerID == newMember.PlayerID {
			errs = append(errs, fmt.Sprintf("player %s is already in the squad", newMember.PlayerID))
		}
		if m.Position == newMember.Position {
			positionCount++
		}
		total += m.Price
	}

	if total+newMember.Price > budget {
		errs = append(errs, fmt.Sprintf("adding player %s would exceed budget %.1f", newMember.PlayerID, budget))
	}
	if positionCount >= slots.ForPosition(newMember.Position) {
		errs = append(errs, fmt.Sprintf("formation %s has no free %s slot", formation, newMember.Position))
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateTransfer checks a like-for-like swap. A price decrease always
// passes, whatever the remaining budget is.
func ValidateTransfer(playerOut, playerIn SquadMember, budgetRemaining float64) Result {
	var errs []string
	if playerOut.Position != playerIn.Position {
		errs = append(errs, fmt.Sprintf("transfer must keep position: %s out, %s in", playerOut.Position, playerIn.Position))
	}
	diff := playerIn.Price - playerOut.Price
	if diff > 0 && diff > budgetRemaining {
		errs = append(errs, fmt.Sprintf("transfer needs %.1f extra budget, only %.1f remaining", diff, budgetRemaining))
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateTeamName checks display-name length (after trimming) and rejects
// markup-significant characters.
func ValidateTeamName(name string) Result {
	var errs []string
	trimmed := strings.TrimSpace(name)
	if length := utf8.RuneCountInString(trimmed); length < teamNameMinLength || length > teamNameMaxLength {
		errs = append(errs, fmt.Sprintf("team name must be between %d and %d characters", teamNameMinLength, teamNameMaxLength))
	}
	if strings.ContainsAny(trimmed, forbiddenNameRunes) {
		errs = append(errs, "team name contains forbidden characters")
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateTeam runs every squad rule and unions the error messages. The
// formation is validated before any slot lookup so an unknown formation is a
// reported failure, not a fault.
func ValidateTeam(name string, members []SquadMember, formation Formation, budget float64) Result {
	formationResult := ValidateFormation(formation)
	results := []Result{
		ValidateTeamName(name),
		ValidateBudget(members, budget),
		formationResult,
	}
	if formationResult.Valid {
		results = append(results, ValidateSquad(members, formation))
	}
	return merge(results...)
}
