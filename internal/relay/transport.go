package relay

import (
	"context"

	"github.com/pion/webrtc/v4"

	"github.com/HMasataka/lookout/pkg/media"
	"github.com/HMasataka/lookout/pkg/rtc"
)

// Transport is one peer connection as the negotiator sees it. The
// callback surface is closed: named setters with fixed signatures.
type Transport interface {
	CreateOffer() (webrtc.SessionDescription, error)
	CreateAnswer() (webrtc.SessionDescription, error)
	SetRemoteDescription(sdp webrtc.SessionDescription) error
	AddICECandidate(candidate webrtc.ICECandidateInit) error
	AddTrack(track webrtc.TrackLocal) (*webrtc.RTPSender, error)
	SetOnICECandidate(f func(*webrtc.ICECandidate))
	SetOnConnectionStateChange(f func(webrtc.PeerConnectionState))
	SetOnTrack(f func(*webrtc.TrackRemote, *webrtc.RTPReceiver))
	SetOnNegotiationNeeded(f func())
	Close() error
}

var _ Transport = (*rtc.Session)(nil)

// TransportFactory creates a fresh transport per negotiator.
type TransportFactory func() (Transport, error)

// SourceFactory builds the decoded-frame source for an inbound track.
type SourceFactory func(transport Transport, track *webrtc.TrackRemote) (media.Source, error)

// OutboundTrack is the paced sender side of the relay.
type OutboundTrack interface {
	Local() webrtc.TrackLocal
	Run(ctx context.Context, source rtc.Puller) error
}

// FrameSink receives every decoded inbound frame; the detection gate
// implements it.
type FrameSink interface {
	OnFrame(ctx context.Context, frame media.Frame) error
}
