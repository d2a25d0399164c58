package rtc

import (
	"context"
	"time"

	"github.com/pion/webrtc/v4"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"

	"github.com/HMasataka/lookout/pkg/media"
)

const DefaultFrameRate = 30

// Puller is the consumer side of the relay queue.
type Puller interface {
	Pull(ctx context.Context) (media.Frame, error)
}

type sampleWriter interface {
	WriteSample(sample pionmedia.Sample) error
}

// FrameTrackは処理済みフレームを送出するローカルトラックです。
// 送出ペースは受信側のレートではなく自身のクロックで決まります。
type FrameTrack struct {
	track   *webrtc.TrackLocalStaticSample
	writer  sampleWriter
	encoder media.Encoder

	frameInterval time.Duration
}

func NewFrameTrack(codec webrtc.RTPCodecCapability, encoder media.Encoder, frameRate int) (*FrameTrack, error) {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	track, err := webrtc.NewTrackLocalStaticSample(codec, "processed-video", "lookout")
	if err != nil {
		return nil, err
	}

	return &FrameTrack{
		track:         track,
		writer:        track,
		encoder:       encoder,
		frameInterval: time.Second / time.Duration(frameRate),
	}, nil
}

// Local returns the track to attach to a session.
func (t *FrameTrack) Local() webrtc.TrackLocal {
	return t.track
}

// Run pulls frames from the queue and writes them as paced samples.
// Returns when the queue closes or ctx is cancelled. The next-send
// clock advances by a fixed interval per frame; when the producer falls
// behind, the clock resets to now instead of bursting to catch up.
func (t *FrameTrack) Run(ctx context.Context, source Puller) error {
	next := time.Now()

	for {
		frame, err := source.Pull(ctx)
		if err != nil {
			return err
		}

		payload, err := t.encoder.Encode(frame)
		if err != nil {
			return err
		}

		now := time.Now()
		if wait := next.Sub(now); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			next = next.Add(t.frameInterval)
		} else {
			next = now.Add(t.frameInterval)
		}

		duration := frame.Duration
		if duration == 0 {
			duration = t.frameInterval
		}

		if err := t.writer.WriteSample(pionmedia.Sample{
			Data:     payload,
			Duration: duration,
		}); err != nil {
			return err
		}
	}
}
