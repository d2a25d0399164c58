package rtc

import (
	"errors"
	"sync"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
)

// TerminalStates are the peer connection states that end a session for
// good; there is no reconnection path.
var TerminalStates = []webrtc.PeerConnectionState{
	webrtc.PeerConnectionStateFailed,
	webrtc.PeerConnectionStateDisconnected,
	webrtc.PeerConnectionStateClosed,
}

func IsTerminal(state webrtc.PeerConnectionState) bool {
	for _, s := range TerminalStates {
		if state == s {
			return true
		}
	}
	return false
}

// Session wraps a WebRTC peer connection. The callback surface is
// closed: named setters only, each invoked as pion documents.
type Session struct {
	pc *webrtc.PeerConnection

	pendingCandidates []webrtc.ICECandidateInit
	candidatesMu      sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a peer connection from the compiled transport
// config.
func NewSession(cfg TransportConfig) (*Session, error) {
	api := webrtc.NewAPI(webrtc.WithSettingEngine(cfg.Setting))

	pc, err := api.NewPeerConnection(cfg.Configuration)
	if err != nil {
		return nil, errors.New("failed to create peer connection: " + err.Error())
	}

	return &Session{pc: pc}, nil
}

// Close releases the underlying transport. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.pc.Close()
	})
	return s.closeErr
}

// CreateOffer generates an offer and installs it as the local
// description. Candidates trickle afterwards via OnICECandidate.
func (s *Session) CreateOffer() (webrtc.SessionDescription, error) {
	offer, err := s.pc.CreateOffer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, errors.New("failed to create offer: " + err.Error())
	}

	if err := s.pc.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, errors.New("failed to set local description: " + err.Error())
	}

	return offer, nil
}

// CreateAnswer generates an answer for the current remote offer and
// installs it as the local description.
func (s *Session) CreateAnswer() (webrtc.SessionDescription, error) {
	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, errors.New("failed to create answer: " + err.Error())
	}

	if err := s.pc.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, errors.New("failed to set local description: " + err.Error())
	}

	return answer, nil
}

// SetRemoteDescription sets the remote SDP and drains any candidates
// that arrived before it.
func (s *Session) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	if err := s.pc.SetRemoteDescription(sdp); err != nil {
		return errors.New("failed to set remote description: " + err.Error())
	}

	s.processPendingCandidates()

	return nil
}

// AddICECandidate applies a remote candidate. Candidates seen before
// the remote description are buffered, same contract as the answering
// side of a trickle exchange.
func (s *Session) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	if s.pc.RemoteDescription() == nil {
		s.candidatesMu.Lock()
		s.pendingCandidates = append(s.pendingCandidates, candidate)
		s.candidatesMu.Unlock()
		return nil
	}

	if err := s.pc.AddICECandidate(candidate); err != nil {
		return errors.New("failed to add ICE candidate: " + err.Error())
	}

	return nil
}

func (s *Session) processPendingCandidates() {
	s.candidatesMu.Lock()
	candidates := s.pendingCandidates
	s.pendingCandidates = nil
	s.candidatesMu.Unlock()

	for _, candidate := range candidates {
		if err := s.pc.AddICECandidate(candidate); err != nil {
			continue
		}
	}
}

// AddTrack attaches an outbound track.
func (s *Session) AddTrack(track webrtc.TrackLocal) (*webrtc.RTPSender, error) {
	return s.pc.AddTrack(track)
}

// WriteRTCP sends RTCP packets on the session transport.
func (s *Session) WriteRTCP(pkts []rtcp.Packet) error {
	return s.pc.WriteRTCP(pkts)
}

func (s *Session) SetOnICECandidate(f func(*webrtc.ICECandidate)) {
	s.pc.OnICECandidate(f)
}

func (s *Session) SetOnConnectionStateChange(f func(webrtc.PeerConnectionState)) {
	s.pc.OnConnectionStateChange(f)
}

func (s *Session) SetOnTrack(f func(*webrtc.TrackRemote, *webrtc.RTPReceiver)) {
	s.pc.OnTrack(f)
}

func (s *Session) SetOnNegotiationNeeded(f func()) {
	s.pc.OnNegotiationNeeded(f)
}

func (s *Session) RemoteDescription() *webrtc.SessionDescription {
	return s.pc.RemoteDescription()
}

func (s *Session) LocalDescription() *webrtc.SessionDescription {
	return s.pc.LocalDescription()
}

func (s *Session) ConnectionState() webrtc.PeerConnectionState {
	return s.pc.ConnectionState()
}
