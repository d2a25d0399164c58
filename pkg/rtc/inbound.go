package rtc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media/samplebuilder"

	"github.com/HMasataka/lookout/pkg/media"
)

const (
	videoClockRate     = 90000
	sampleBuilderDepth = 50
	readDeadline       = 500 * time.Millisecond
)

var ErrUnsupportedCodec = errors.New("rtc: unsupported codec")

// TrackSource turns an inbound remote track into a stream of decoded
// frames. RTP packets are reassembled into access units with a sample
// builder, then handed to the decoder. A PLI is requested on start and
// on a fixed interval so the sender keeps refreshing keyframes.
type TrackSource struct {
	session *Session
	track   *webrtc.TrackRemote
	decoder media.Decoder
	builder *samplebuilder.SampleBuilder

	pliInterval time.Duration
	lastPli     time.Time
}

func NewTrackSource(session *Session, track *webrtc.TrackRemote, decoder media.Decoder, pliInterval time.Duration) (*TrackSource, error) {
	depacketizer, err := depacketizerFor(track.Codec().MimeType)
	if err != nil {
		return nil, err
	}

	return &TrackSource{
		session:     session,
		track:       track,
		decoder:     decoder,
		builder:     samplebuilder.New(sampleBuilderDepth, depacketizer, videoClockRate),
		pliInterval: pliInterval,
	}, nil
}

// Recv blocks until the next complete frame is available. io.EOF (or a
// closed transport error) ends the stream.
func (s *TrackSource) Recv(ctx context.Context) (media.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return media.Frame{}, err
		}

		s.maybeRequestKeyframe()

		if err := s.track.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
			return media.Frame{}, err
		}

		pkt, _, err := s.track.ReadRTP()
		if err != nil {
			var netErr interface{ Timeout() bool }
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return media.Frame{}, err
		}

		s.builder.Push(pkt)

		sample := s.builder.Pop()
		if sample == nil {
			continue
		}

		keyframe := isKeyframe(s.track.Codec().MimeType, sample.Data)

		frame, err := s.decoder.Decode(sample.Data, keyframe)
		if err != nil {
			return media.Frame{}, err
		}

		if frame.Duration == 0 {
			frame.Duration = sample.Duration
		}
		return frame, nil
	}
}

func (s *TrackSource) maybeRequestKeyframe() {
	if s.pliInterval <= 0 {
		return
	}
	if time.Since(s.lastPli) < s.pliInterval {
		return
	}
	s.lastPli = time.Now()

	_ = s.session.WriteRTCP([]rtcp.Packet{
		&rtcp.PictureLossIndication{MediaSSRC: uint32(s.track.SSRC())},
	})
}

func depacketizerFor(mimeType string) (rtp.Depacketizer, error) {
	switch {
	case strings.EqualFold(mimeType, webrtc.MimeTypeVP8):
		return &codecs.VP8Packet{}, nil
	case strings.EqualFold(mimeType, webrtc.MimeTypeVP9):
		return &codecs.VP9Packet{}, nil
	case strings.EqualFold(mimeType, webrtc.MimeTypeH264):
		return &codecs.H264Packet{}, nil
	default:
		return nil, ErrUnsupportedCodec
	}
}

// isKeyframe inspects the first bytes of an assembled access unit.
// Best effort; a false negative only delays detection-side hints.
func isKeyframe(mimeType string, data []byte) bool {
	if len(data) == 0 {
		return false
	}

	switch {
	case strings.EqualFold(mimeType, webrtc.MimeTypeVP8):
		// VP8 frame tag: lowest bit of the first byte is 0 for keyframes.
		return data[0]&0x01 == 0
	case strings.EqualFold(mimeType, webrtc.MimeTypeH264):
		// Look for an IDR NAL unit at the head of the unit.
		for i := 0; i+4 < len(data); i++ {
			if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
				if data[i+3]&0x1F == 5 {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}
