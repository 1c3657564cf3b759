package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/schoolleague/fantasy-engine/internal/domain/badge"
)

type BadgeRepository struct {
	db *sqlx.DB
}

func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// AwardIfAbsent leans on the unique (user_id, badge_type) index: a conflicting
// insert is silently skipped and reported through the affected-row count.
func (r *BadgeRepository) AwardIfAbsent(ctx context.Context, b badge.Badge) (bool, error) {
	metadata, err := jsonbColumn(b.Metadata)
	if err != nil {
		return false, fmt.Errorf("encode badge metadata: %w", err)
	}

	const query = `
INSERT INTO user_badges (user_id, badge_type, gameweek, earned_at, metadata)
VALUES (:user_id, :badge_type, :gameweek, :earned_at, :metadata)
ON CONFLICT (user_id, badge_type) DO NOTHING`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"user_id":    b.UserID,
		"badge_type": string(b.Type),
		"gameweek":   b.Gameweek,
		"earned_at":  b.EarnedAt.UTC(),
		"metadata":   metadata,
	})
	if err != nil {
		return false, fmt.Errorf("bind award badge query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	result, err := r.db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return false, fmt.Errorf("award badge %s to user %s: %w", b.Type, b.UserID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award badge %s to user %s: %w", b.Type, b.UserID, err)
	}
	return affected > 0, nil
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID string) ([]badge.Badge, error) {
	const query = `
SELECT user_id, badge_type, gameweek, earned_at, metadata
FROM user_badges
WHERE user_id = $1
ORDER BY earned_at, badge_type`

	var rows []struct {
		UserID    string    `db:"user_id"`
		BadgeType string    `db:"badge_type"`
		Gameweek  int       `db:"gameweek"`
		EarnedAt  time.Time `db:"earned_at"`
		Metadata  []byte    `db:"metadata"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list badges for user %s: %w", userID, err)
	}

	badges := make([]badge.Badge, 0, len(rows))
	for _, row := range rows {
		metadata, err := fromJSONBColumn[map[string]any](row.Metadata)
		if err != nil {
			return nil, fmt.Errorf("decode badge metadata for user %s: %w", userID, err)
		}
		badges = append(badges, badge.Badge{
			UserID:   row.UserID,
			Type:     badge.Type(row.BadgeType),
			EarnedAt: row.EarnedAt,
			Gameweek: row.Gameweek,
			Metadata: metadata,
		})
	}
	return badges, nil
}
