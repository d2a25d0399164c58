package control_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/HMasataka/lookout/internal/app"
	"github.com/HMasataka/lookout/internal/config"
	"github.com/HMasataka/lookout/internal/control"
	"github.com/HMasataka/lookout/internal/signaling"
	mock_signaling "github.com/HMasataka/lookout/internal/signaling/mock"
)

// blockingStore keeps every relay pinned in its initial document read
// until the run context is cancelled.
func blockingStore(ctrl *gomock.Controller) *mock_signaling.MockStore {
	store := mock_signaling.NewMockStore(ctrl)
	store.EXPECT().GetDocument(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id string) (signaling.Document, error) {
			<-ctx.Done()
			return signaling.Document{}, signaling.ErrNotFound
		}).AnyTimes()
	return store
}

func TestManagerStart(t *testing.T) {
	t.Run("同一セッションの二重起動は拒否する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := control.NewManager(config.Default(), blockingStore(ctrl))
		defer m.StopAll()

		status, err := m.Start("call-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, control.StateRunning, status.State)
		assert.NotEmpty(t, status.RunID)

		_, err = m.Start("call-1", "user-2")
		assert.ErrorIs(t, err, control.ErrRelayExists)
	})

	t.Run("同一ユーザーの二重起動は拒否する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := control.NewManager(config.Default(), blockingStore(ctrl))
		defer m.StopAll()

		_, err := m.Start("call-1", "user-1")
		require.NoError(t, err)

		_, err = m.Start("call-2", "user-1")
		assert.ErrorIs(t, err, control.ErrUserBusy)
	})

	t.Run("未知のコーデックは組み立て時点で拒否する", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		conf := config.Default()
		conf.Relay.Codec = "av1"

		m := control.NewManager(conf, blockingStore(ctrl))

		_, err := m.Start("call-1", "user-1")
		assert.ErrorIs(t, err, app.ErrUnknownCodec)
	})
}

func TestManagerStop(t *testing.T) {
	t.Run("停止でセッションが解放され再起動できる", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := control.NewManager(config.Default(), blockingStore(ctrl))
		defer m.StopAll()

		_, err := m.Start("call-1", "user-1")
		require.NoError(t, err)

		require.NoError(t, m.Stop("call-1"))

		_, err = m.Status("call-1")
		assert.ErrorIs(t, err, control.ErrRelayNotFound)

		_, err = m.Start("call-1", "user-1")
		assert.NoError(t, err)
	})

	t.Run("存在しないセッションの停止はエラー", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := control.NewManager(config.Default(), blockingStore(ctrl))

		assert.ErrorIs(t, m.Stop("missing"), control.ErrRelayNotFound)
	})
}

func TestManagerSubscribe(t *testing.T) {
	t.Run("ライフサイクルイベントが届く", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := control.NewManager(config.Default(), blockingStore(ctrl))
		defer m.StopAll()

		events, cancel := m.Subscribe()
		defer cancel()

		_, err := m.Start("call-1", "user-1")
		require.NoError(t, err)

		select {
		case ev := <-events:
			assert.Equal(t, "call-1", ev.SessionID)
			assert.Equal(t, control.StateRunning, ev.State)
		case <-time.After(time.Second):
			t.Fatal("no start event")
		}

		require.NoError(t, m.Stop("call-1"))

		select {
		case ev := <-events:
			assert.Equal(t, "call-1", ev.SessionID)
			assert.NotEqual(t, control.StateRunning, ev.State)
		case <-time.After(time.Second):
			t.Fatal("no stop event")
		}
	})
}

func TestManagerList(t *testing.T) {
	t.Run("稼働中のリレーだけが列挙される", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := control.NewManager(config.Default(), blockingStore(ctrl))
		defer m.StopAll()

		assert.Empty(t, m.List())

		_, err := m.Start("call-1", "user-1")
		require.NoError(t, err)
		_, err = m.Start("call-2", "user-2")
		require.NoError(t, err)

		assert.Len(t, m.List(), 2)

		require.NoError(t, m.Stop("call-1"))
		assert.Len(t, m.List(), 1)
	})
}
