package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	fieldEnabled  = "notifications_enabled"
	fieldCooldown = "cooldown_seconds"
	fieldTokens   = "tokens"
)

// RedisSettings reads user settings from the same redis deployment the
// signaling store uses. A user without a settings hash has
// notifications disabled.
type RedisSettings struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisSettings(client *redis.Client, keyPrefix string) *RedisSettings {
	if keyPrefix == "" {
		keyPrefix = "lookout"
	}
	return &RedisSettings{client: client, keyPrefix: keyPrefix}
}

func (s *RedisSettings) GetUserSettings(ctx context.Context, userID string) (UserSettings, error) {
	fields, err := s.client.HGetAll(ctx, s.keyPrefix+":user:"+userID).Result()
	if err != nil {
		return UserSettings{}, fmt.Errorf("failed to read user settings: %w", err)
	}

	var settings UserSettings

	if raw, ok := fields[fieldEnabled]; ok {
		enabled, err := strconv.ParseBool(raw)
		if err == nil {
			settings.NotificationsEnabled = enabled
		}
	}

	if raw, ok := fields[fieldCooldown]; ok {
		if cooldown, err := strconv.Atoi(raw); err == nil {
			settings.NotifCooldownSeconds = cooldown
		}
	}

	if raw, ok := fields[fieldTokens]; ok {
		if err := json.Unmarshal([]byte(raw), &settings.Tokens); err != nil {
			return UserSettings{}, fmt.Errorf("failed to decode user tokens: %w", err)
		}
	}

	return settings, nil
}

var _ SettingsSource = (*RedisSettings)(nil)
