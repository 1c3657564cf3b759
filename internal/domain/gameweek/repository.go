package gameweek

import "context"

// Repository persists history snapshots. AppendIfAbsent enforces the
// once-per-(team, gameweek) lifecycle at the storage contract level.
type Repository interface {
	AppendIfAbsent(ctx context.Context, h History) (created bool, err error)
	ListByTeam(ctx context.Context, teamID string, limit int) ([]History, error)
}
