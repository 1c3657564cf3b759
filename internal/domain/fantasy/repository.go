package fantasy

import "context"

// Repository describes fantasy team persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, team Team) error
}
