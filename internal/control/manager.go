package control

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/HMasataka/lookout/internal/app"
	"github.com/HMasataka/lookout/internal/config"
	"github.com/HMasataka/lookout/internal/signaling"
)

var (
	ErrRelayExists   = errors.New("control: relay already running for session")
	ErrUserBusy      = errors.New("control: user already has a running relay")
	ErrRelayNotFound = errors.New("control: relay not found")
)

const (
	StateRunning = "running"
	StateStopped = "stopped"
	StateFailed  = "failed"
)

// RelayStatus is the externally visible state of one relay run.
type RelayStatus struct {
	RunID     string    `json:"runId"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"startedAt"`
	Error     string    `json:"error,omitempty"`
}

// Event is pushed to websocket subscribers on relay lifecycle changes.
type Event struct {
	RunID     string `json:"runId"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	State     string `json:"state"`
	Error     string `json:"error,omitempty"`
}

type runner struct {
	status RelayStatus
	cancel context.CancelFunc
	done   chan struct{}
}

/*
Managerはセッション識別子ごとに高々1つのリレーを起動し、
終了・失敗を購読者へ通知します。同一ユーザーの二重起動も拒否します。
*/
type Manager struct {
	conf  config.Config
	store signaling.Store

	mu     sync.Mutex
	relays map[string]*runner

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

func NewManager(conf config.Config, store signaling.Store) *Manager {
	return &Manager{
		conf:   conf,
		store:  store,
		relays: make(map[string]*runner),
		subs:   make(map[chan Event]struct{}),
	}
}

// Start launches a relay for the session. The returned status reflects
// the moment of launch; the run continues in the background.
func (m *Manager) Start(sessionID, userID string) (RelayStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.relays[sessionID]; ok {
		return RelayStatus{}, ErrRelayExists
	}
	for _, r := range m.relays {
		if r.status.UserID == userID {
			return RelayStatus{}, ErrUserBusy
		}
	}

	controller, err := app.NewRelay(m.conf, m.store, sessionID, userID)
	if err != nil {
		return RelayStatus{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &runner{
		status: RelayStatus{
			RunID:     uuid.NewString(),
			SessionID: sessionID,
			UserID:    userID,
			State:     StateRunning,
			StartedAt: time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.relays[sessionID] = r

	go func() {
		defer close(r.done)

		err := controller.Run(ctx)

		m.mu.Lock()
		if err != nil {
			r.status.State = StateFailed
			r.status.Error = err.Error()
		} else {
			r.status.State = StateStopped
		}
		status := r.status
		delete(m.relays, sessionID)
		m.mu.Unlock()

		if err != nil {
			slog.Error("relay ended", "session_id", sessionID, "run_id", status.RunID, "error", err)
		} else {
			slog.Info("relay ended", "session_id", sessionID, "run_id", status.RunID)
		}

		m.publish(Event{
			RunID:     status.RunID,
			SessionID: status.SessionID,
			UserID:    status.UserID,
			State:     status.State,
			Error:     status.Error,
		})
	}()

	m.publish(Event{
		RunID:     r.status.RunID,
		SessionID: sessionID,
		UserID:    userID,
		State:     StateRunning,
	})

	return r.status, nil
}

// Stop cancels the relay for the session and waits for it to unwind.
func (m *Manager) Stop(sessionID string) error {
	m.mu.Lock()
	r, ok := m.relays[sessionID]
	m.mu.Unlock()
	if !ok {
		return ErrRelayNotFound
	}

	r.cancel()
	<-r.done

	return nil
}

func (m *Manager) Status(sessionID string) (RelayStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.relays[sessionID]
	if !ok {
		return RelayStatus{}, ErrRelayNotFound
	}
	return r.status, nil
}

func (m *Manager) List() []RelayStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make([]RelayStatus, 0, len(m.relays))
	for _, r := range m.relays {
		statuses = append(statuses, r.status)
	}
	return statuses
}

// Subscribe returns a channel of lifecycle events and a cancel func.
// Slow subscribers drop events rather than blocking the manager.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	m.subMu.Lock()
	m.subs[ch] = struct{}{}
	m.subMu.Unlock()

	cancel := func() {
		m.subMu.Lock()
		delete(m.subs, ch)
		m.subMu.Unlock()
	}

	return ch, cancel
}

// StopAll cancels every running relay. Used on daemon shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	runners := make([]*runner, 0, len(m.relays))
	for _, r := range m.relays {
		runners = append(runners, r)
	}
	m.mu.Unlock()

	for _, r := range runners {
		r.cancel()
	}
	for _, r := range runners {
		<-r.done
	}
}

func (m *Manager) publish(ev Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
