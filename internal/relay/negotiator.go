package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/pion/webrtc/v4"

	"github.com/HMasataka/lookout/internal/signaling"
	"github.com/HMasataka/lookout/pkg/rtc"
	"github.com/HMasataka/lookout/pkg/sdpdebug"
)

// Role picks which side of the signaling document a negotiator plays.
type Role string

const (
	// RoleInbound answers an existing offer and writes into
	// answerCandidates.
	RoleInbound Role = "inbound"
	// RoleOutbound authors a fresh offer and writes into
	// offerCandidates.
	RoleOutbound Role = "outbound"
)

const renegotiateDebounce = 250 * time.Millisecond

/*
Negotiatorは1本のトランスポートセッションをofferやanswer、candidateの
交換を通じて接続状態まで進めます。ローカル記述とローカルcandidateは
ストアへ書き込まれて初めて送信済みとみなされます。
*/
type Negotiator struct {
	id        string
	role      Role
	transport Transport
	store     signaling.Store

	localCollection string

	writtenMu sync.Mutex
	written   map[string]struct{}

	localSDP  atomic.Value // string: last local description written
	published atomic.Bool

	onConnected   func()
	onTerminal    func(webrtc.PeerConnectionState)
	connectedOnce sync.Once
	terminalOnce  sync.Once
	closeOnce     sync.Once
}

func NewNegotiator(id string, role Role, transport Transport, store signaling.Store) *Negotiator {
	localCollection := signaling.CollectionAnswerCandidates
	if role == RoleOutbound {
		localCollection = signaling.CollectionOfferCandidates
	}

	return &Negotiator{
		id:              id,
		role:            role,
		transport:       transport,
		store:           store,
		localCollection: localCollection,
		written:         map[string]struct{}{},
	}
}

// OnConnected registers f, invoked at most once when the transport
// reaches the connected state. Must be called before Start.
func (n *Negotiator) OnConnected(f func()) {
	n.onConnected = f
}

// OnTerminal registers f, invoked at most once with the first terminal
// state. Must be called before Start.
func (n *Negotiator) OnTerminal(f func(webrtc.PeerConnectionState)) {
	n.onTerminal = f
}

// Start wires the transport callbacks. Local candidates are forwarded
// to the store in discovery order; a store failure loses that candidate
// but does not end the session.
func (n *Negotiator) Start(ctx context.Context) {
	n.transport.SetOnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil {
			return
		}

		record := candidateRecord(candidate.ToJSON())
		n.markWritten(record.Candidate)

		if err := n.store.AppendToCollection(ctx, n.id, n.localCollection, record); err != nil {
			slog.Warn("failed to forward local candidate",
				"role", string(n.role), "session_id", n.id, "error", err)
		}
	})

	n.transport.SetOnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		slog.Info("connection state changed",
			"role", string(n.role), "session_id", n.id, "state", state.String())

		switch {
		case state == webrtc.PeerConnectionStateConnected:
			n.connectedOnce.Do(func() {
				if n.onConnected != nil {
					n.onConnected()
				}
			})
		case rtc.IsTerminal(state):
			n.terminalOnce.Do(func() {
				if n.onTerminal != nil {
					n.onTerminal(state)
				}
			})
		}
	})

	if n.role == RoleOutbound {
		debounced := debounce.New(renegotiateDebounce)
		n.transport.SetOnNegotiationNeeded(func() {
			// Only renegotiations after the first explicit publish.
			if !n.published.Load() {
				return
			}
			debounced(func() {
				if err := n.PublishOffer(ctx); err != nil {
					slog.Warn("failed to republish offer",
						"session_id", n.id, "error", err)
				}
			})
		})
	}
}

// AcceptOffer applies the remote offer, produces an answer and writes
// it back to the signaling document.
func (n *Negotiator) AcceptOffer(ctx context.Context, remote signaling.Description) (signaling.Description, error) {
	desc := webrtc.SessionDescription{SDP: remote.SDP, Type: webrtc.NewSDPType(remote.Type)}
	if desc.Type == webrtc.SDPTypeUnknown {
		return signaling.Description{}, fmt.Errorf("%w: malformed remote description type %q", ErrNegotiation, remote.Type)
	}

	sdpdebug.LogDescription("inbound offer", desc)

	if err := n.transport.SetRemoteDescription(desc); err != nil {
		return signaling.Description{}, fmt.Errorf("%w: %v", ErrNegotiation, err)
	}

	answer, err := n.transport.CreateAnswer()
	if err != nil {
		return signaling.Description{}, fmt.Errorf("%w: %v", ErrNegotiation, err)
	}

	local := signaling.Description{SDP: answer.SDP, Type: answer.Type.String()}
	if err := n.store.SetDocument(ctx, n.id, signaling.Document{Answer: &local}, true); err != nil {
		return signaling.Description{}, fmt.Errorf("failed to write answer: %w", err)
	}
	n.localSDP.Store(answer.SDP)

	return local, nil
}

// PublishOffer generates a local offer and writes it to the signaling
// document with merge semantics.
func (n *Negotiator) PublishOffer(ctx context.Context) error {
	offer, err := n.transport.CreateOffer()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNegotiation, err)
	}

	sdpdebug.LogDescription("outbound offer", offer)

	local := signaling.Description{SDP: offer.SDP, Type: offer.Type.String()}
	if err := n.store.SetDocument(ctx, n.id, signaling.Document{Offer: &local}, true); err != nil {
		return fmt.Errorf("failed to write offer: %w", err)
	}
	n.localSDP.Store(offer.SDP)
	n.published.Store(true)

	return nil
}

// ApplyRemoteAnswer finishes the outbound exchange.
func (n *Negotiator) ApplyRemoteAnswer(remote signaling.Description) error {
	desc := webrtc.SessionDescription{SDP: remote.SDP, Type: webrtc.NewSDPType(remote.Type)}
	if desc.Type == webrtc.SDPTypeUnknown {
		return fmt.Errorf("%w: malformed remote description type %q", ErrNegotiation, remote.Type)
	}

	sdpdebug.LogDescription("outbound answer", desc)

	if err := n.transport.SetRemoteDescription(desc); err != nil {
		return fmt.Errorf("%w: %v", ErrNegotiation, err)
	}

	return nil
}

// AddRemoteCandidate applies one candidate record from the feed.
func (n *Negotiator) AddRemoteCandidate(record signaling.CandidateRecord) error {
	mid := record.SDPMid
	index := record.SDPMLineIndex

	return n.transport.AddICECandidate(webrtc.ICECandidateInit{
		Candidate:     record.Candidate,
		SDPMid:        &mid,
		SDPMLineIndex: &index,
	})
}

// WroteCandidate reports whether this process appended the candidate.
// The shared signaling document makes both legs visible on the same
// collections, so feeds use this to skip their own writes.
func (n *Negotiator) WroteCandidate(candidate string) bool {
	n.writtenMu.Lock()
	defer n.writtenMu.Unlock()
	_, ok := n.written[candidate]
	return ok
}

// LocalSDP returns the last local description written to the store.
func (n *Negotiator) LocalSDP() string {
	if s, ok := n.localSDP.Load().(string); ok {
		return s
	}
	return ""
}

// Close releases the transport. Idempotent.
func (n *Negotiator) Close() error {
	var err error
	n.closeOnce.Do(func() {
		err = n.transport.Close()
	})
	return err
}

func (n *Negotiator) markWritten(candidate string) {
	n.writtenMu.Lock()
	n.written[candidate] = struct{}{}
	n.writtenMu.Unlock()
}

func candidateRecord(init webrtc.ICECandidateInit) signaling.CandidateRecord {
	record := signaling.CandidateRecord{Candidate: init.Candidate}
	if init.SDPMid != nil {
		record.SDPMid = *init.SDPMid
	}
	if init.SDPMLineIndex != nil {
		record.SDPMLineIndex = *init.SDPMLineIndex
	}
	return record
}
