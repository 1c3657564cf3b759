package usecase

import "context"

// Notifier is the collaborator that fans engine events out to users. Sends
// are best-effort; a failed notification never fails the batch that
// produced it.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, metadata map[string]any) error
}

// NopNotifier drops every notification. Used in tests and when no sink is
// configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, map[string]any) error {
	return nil
}
