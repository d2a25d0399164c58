package notify

import "context"

// UserSettings controls whether and how often a user is notified.
type UserSettings struct {
	NotificationsEnabled bool     `json:"notificationsEnabled"`
	NotifCooldownSeconds int      `json:"notifCooldownSeconds"`
	Tokens               []string `json:"tokens"`
}

// SettingsSource reads a user's notification settings. Implementations
// may be slow; callers are expected to rate-limit lookups.
type SettingsSource interface {
	GetUserSettings(ctx context.Context, userID string) (UserSettings, error)
}

// Pusher delivers one notification to one device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string) error
}

// NopPusher drops notifications. Used when no provider is configured.
type NopPusher struct{}

func (NopPusher) Push(ctx context.Context, token, title, body string) error {
	return nil
}
