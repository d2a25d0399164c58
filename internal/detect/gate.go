package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/HMasataka/lookout/internal/notify"
	"github.com/HMasataka/lookout/pkg/media"
)

const (
	// CheckCooldown bounds how often user settings are re-read,
	// independently of the notification cooldown. Inference runs at
	// frame rate; settings lookups must not.
	CheckCooldown = time.Second
	// DefaultNotifyCooldown applies when the user has not configured
	// one.
	DefaultNotifyCooldown = 60 * time.Second
)

const (
	notificationTitle = "Person detected"
	notificationBody  = "A person was detected on your camera."
)

// FramePusher is the producer side of the relay queue.
type FramePusher interface {
	Push(frame media.Frame) error
}

/*
Gateは全フレームを推論へ通し、処理済みフレームを無条件でキューへ
送った上で、検出時のみ2段のクールダウンを経て通知を発火します。
OnFrameは受信側のポンプgoroutineからのみ呼ばれる前提です。
*/
type Gate struct {
	userID   string
	detector Detector
	queue    FramePusher
	settings notify.SettingsSource
	pusher   notify.Pusher

	lastCheck        time.Time
	lastNotification time.Time

	now func() time.Time
}

func NewGate(userID string, detector Detector, queue FramePusher, settings notify.SettingsSource, pusher notify.Pusher) *Gate {
	return &Gate{
		userID:   userID,
		detector: detector,
		queue:    queue,
		settings: settings,
		pusher:   pusher,
		now:      time.Now,
	}
}

// OnFrame runs inference, forwards the processed frame and, when a
// person was found, consults the cooldown state. Inference failures
// propagate; a failing frame cycle is fatal upstream.
func (g *Gate) OnFrame(ctx context.Context, frame media.Frame) error {
	processed, found, err := g.detector.Infer(frame)
	if err != nil {
		return err
	}

	if err := g.queue.Push(processed); err != nil {
		return err
	}

	if found {
		g.maybeNotify(ctx)
	}

	return nil
}

func (g *Gate) maybeNotify(ctx context.Context) {
	now := g.now()

	if now.Sub(g.lastCheck) < CheckCooldown {
		return
	}
	g.lastCheck = now

	settings, err := g.settings.GetUserSettings(ctx, g.userID)
	if err != nil {
		// Store unavailability never takes the relay down; this check
		// is simply skipped.
		slog.Warn("failed to read user settings", "user_id", g.userID, "error", err)
		return
	}

	if !settings.NotificationsEnabled {
		return
	}

	cooldown := DefaultNotifyCooldown
	if settings.NotifCooldownSeconds > 0 {
		cooldown = time.Duration(settings.NotifCooldownSeconds) * time.Second
	}

	if now.Sub(g.lastNotification) < cooldown {
		return
	}
	g.lastNotification = now

	tokens := lo.Filter(settings.Tokens, func(token string, _ int) bool {
		return token != ""
	})

	for _, token := range tokens {
		if err := g.pusher.Push(ctx, token, notificationTitle, notificationBody); err != nil {
			slog.Warn("failed to deliver notification",
				"user_id", g.userID, "error", err)
		}
	}
}
