package detect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/HMasataka/lookout/internal/notify"
	mock_notify "github.com/HMasataka/lookout/internal/notify/mock"
	"github.com/HMasataka/lookout/pkg/media"
)

type fakeQueue struct {
	frames []media.Frame
	err    error
}

func (q *fakeQueue) Push(frame media.Frame) error {
	if q.err != nil {
		return q.err
	}
	q.frames = append(q.frames, frame)
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func alwaysFound() Detector {
	return Func(func(frame media.Frame) (media.Frame, bool, error) {
		return frame, true, nil
	})
}

func newTestGate(t *testing.T, detector Detector, queue *fakeQueue, settings notify.SettingsSource, pusher notify.Pusher) (*Gate, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Unix(1000, 0)}
	gate := NewGate("user-1", detector, queue, settings, pusher)
	gate.now = clock.now
	// The first frame must be allowed to look up settings immediately.
	gate.lastCheck = clock.t.Add(-time.Hour)
	gate.lastNotification = clock.t.Add(-time.Hour)

	return gate, clock
}

func TestGateOnFrame(t *testing.T) {
	ctx := context.Background()

	t.Run("処理済みフレームは検出結果に関わらずキューへ入る", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := &fakeQueue{}

		notFound := Func(func(frame media.Frame) (media.Frame, bool, error) {
			return frame, false, nil
		})

		gate, _ := newTestGate(t, notFound, queue, mock_notify.NewMockSettingsSource(ctrl), mock_notify.NewMockPusher(ctrl))

		require.NoError(t, gate.OnFrame(ctx, media.Frame{Data: []byte{1}}))
		assert.Len(t, queue.frames, 1)
	})

	t.Run("推論エラーは伝播する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inferErr := errors.New("inference failed")

		failing := Func(func(frame media.Frame) (media.Frame, bool, error) {
			return media.Frame{}, false, inferErr
		})

		gate, _ := newTestGate(t, failing, &fakeQueue{}, mock_notify.NewMockSettingsSource(ctrl), mock_notify.NewMockPusher(ctrl))

		assert.ErrorIs(t, gate.OnFrame(ctx, media.Frame{}), inferErr)
	})

	t.Run("キューのクローズは伝播する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queueErr := errors.New("queue closed")

		settings := mock_notify.NewMockSettingsSource(ctrl)
		gate, _ := newTestGate(t, alwaysFound(), &fakeQueue{err: queueErr}, settings, mock_notify.NewMockPusher(ctrl))

		assert.ErrorIs(t, gate.OnFrame(ctx, media.Frame{}), queueErr)
	})
}

func TestGateCooldown(t *testing.T) {
	ctx := context.Background()

	t.Run("設定の読み取りは毎秒1回まで", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		settings := mock_notify.NewMockSettingsSource(ctrl)
		pusher := mock_notify.NewMockPusher(ctrl)

		// 30 frames inside one second: exactly one lookup and one push.
		settings.EXPECT().GetUserSettings(gomock.Any(), "user-1").
			Return(notify.UserSettings{NotificationsEnabled: true, Tokens: []string{"t1"}}, nil).
			Times(1)
		pusher.EXPECT().Push(gomock.Any(), "t1", gomock.Any(), gomock.Any()).Return(nil).Times(1)

		gate, clock := newTestGate(t, alwaysFound(), &fakeQueue{}, settings, pusher)

		for i := 0; i < 30; i++ {
			require.NoError(t, gate.OnFrame(ctx, media.Frame{}))
			clock.advance(33 * time.Millisecond)
		}
	})

	t.Run("通知はユーザーのクールダウンに従う", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		settings := mock_notify.NewMockSettingsSource(ctrl)
		pusher := mock_notify.NewMockPusher(ctrl)

		settings.EXPECT().GetUserSettings(gomock.Any(), "user-1").
			Return(notify.UserSettings{NotificationsEnabled: true, NotifCooldownSeconds: 10, Tokens: []string{"t1"}}, nil).
			AnyTimes()
		// First detection notifies, the 2s-later one is inside the 10s
		// cooldown, the 11s-later one notifies again.
		pusher.EXPECT().Push(gomock.Any(), "t1", gomock.Any(), gomock.Any()).Return(nil).Times(2)

		gate, clock := newTestGate(t, alwaysFound(), &fakeQueue{}, settings, pusher)

		require.NoError(t, gate.OnFrame(ctx, media.Frame{}))
		clock.advance(2 * time.Second)
		require.NoError(t, gate.OnFrame(ctx, media.Frame{}))
		clock.advance(9 * time.Second)
		require.NoError(t, gate.OnFrame(ctx, media.Frame{}))
	})

	t.Run("通知が無効なユーザーへは送らない", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		settings := mock_notify.NewMockSettingsSource(ctrl)
		pusher := mock_notify.NewMockPusher(ctrl)

		settings.EXPECT().GetUserSettings(gomock.Any(), "user-1").
			Return(notify.UserSettings{NotificationsEnabled: false, Tokens: []string{"t1"}}, nil)

		gate, _ := newTestGate(t, alwaysFound(), &fakeQueue{}, settings, pusher)

		require.NoError(t, gate.OnFrame(ctx, media.Frame{}))
	})

	t.Run("設定読み取りの失敗でリレーは止まらない", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		settings := mock_notify.NewMockSettingsSource(ctrl)
		settings.EXPECT().GetUserSettings(gomock.Any(), "user-1").
			Return(notify.UserSettings{}, errors.New("store down"))

		gate, _ := newTestGate(t, alwaysFound(), &fakeQueue{}, settings, mock_notify.NewMockPusher(ctrl))

		assert.NoError(t, gate.OnFrame(ctx, media.Frame{}))
	})

	t.Run("1トークンの失敗は他のトークンへの配送を妨げない", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		settings := mock_notify.NewMockSettingsSource(ctrl)
		pusher := mock_notify.NewMockPusher(ctrl)

		settings.EXPECT().GetUserSettings(gomock.Any(), "user-1").
			Return(notify.UserSettings{NotificationsEnabled: true, Tokens: []string{"bad", "", "good"}}, nil)

		pusher.EXPECT().Push(gomock.Any(), "bad", gomock.Any(), gomock.Any()).Return(errors.New("expired token"))
		pusher.EXPECT().Push(gomock.Any(), "good", gomock.Any(), gomock.Any()).Return(nil)

		gate, _ := newTestGate(t, alwaysFound(), &fakeQueue{}, settings, pusher)

		assert.NoError(t, gate.OnFrame(ctx, media.Frame{}))
	})
}
