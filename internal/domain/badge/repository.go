package badge

import "context"

// Repository owns the uniqueness invariant: AwardIfAbsent creates the badge
// only when the (UserID, Type) pair does not exist yet, and reports whether a
// record was created. Awarding an already-held badge is a silent no-op.
type Repository interface {
	AwardIfAbsent(ctx context.Context, b Badge) (created bool, err error)
	ListByUser(ctx context.Context, userID string) ([]Badge, error)
}
