package memory

import (
	"context"
	"sync"

	"github.com/schoolleague/fantasy-engine/internal/domain/badge"
)

type BadgeRepository struct {
	mu    sync.RWMutex
	items map[string]badge.Badge
}

func NewBadgeRepository() *BadgeRepository {
	return &BadgeRepository{items: make(map[string]badge.Badge)}
}

func (r *BadgeRepository) AwardIfAbsent(_ context.Context, b badge.Badge) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := badgeKey(b.UserID, b.Type)
	if _, exists := r.items[key]; exists {
		return false, nil
	}
	r.items[key] = b
	return true, nil
}

func (r *BadgeRepository) ListByUser(_ context.Context, userID string) ([]badge.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]badge.Badge, 0)
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func badgeKey(userID string, badgeType badge.Type) string {
	return userID + "::" + string(badgeType)
}
