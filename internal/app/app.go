package app

import (
	"context"
	"errors"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/HMasataka/lookout/internal/config"
	"github.com/HMasataka/lookout/internal/detect"
	"github.com/HMasataka/lookout/internal/notify"
	"github.com/HMasataka/lookout/internal/relay"
	"github.com/HMasataka/lookout/internal/signaling"
	"github.com/HMasataka/lookout/pkg/media"
	"github.com/HMasataka/lookout/pkg/rtc"
)

var ErrUnknownCodec = errors.New("app: unknown relay codec")

// NewRelay assembles one relay controller from configuration. The
// returned controller owns nothing shared; the caller may keep the
// store for reuse across sessions.
func NewRelay(conf config.Config, store signaling.Store, sessionID, userID string) (*relay.Controller, error) {
	codecCap, err := codecCapability(conf.Relay.Codec)
	if err != nil {
		return nil, err
	}

	transportConfig := rtc.NewTransportConfig(conf.WebRTC)

	codec := media.NewPassthroughCodec()

	frameRate := conf.Relay.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}
	outbound, err := rtc.NewFrameTrack(codecCap, codec, frameRate)
	if err != nil {
		return nil, err
	}

	capacity := conf.Relay.QueueCapacity
	if capacity <= 0 {
		capacity = relay.DefaultQueueCapacity
	}
	queue := relay.NewFrameQueue(capacity)

	detector := detect.Noop()
	if conf.Detect.Endpoint != "" {
		detector = detect.NewHTTPDetector(conf.Detect.Endpoint)
	}

	var pusher notify.Pusher = notify.NopPusher{}
	if conf.Notify.Endpoint != "" {
		pusher = notify.NewHTTPPusher(conf.Notify.Endpoint, conf.Notify.APIKey)
	}

	settings := settingsSource(conf, store)

	gate := detect.NewGate(userID, detector, queue, settings, pusher)

	pliInterval := time.Duration(conf.Relay.PLIIntervalMS) * time.Millisecond

	opts := relay.Options{
		SessionID: sessionID,
		UserID:    userID,
		Store:     store,
		NewTransport: func() (relay.Transport, error) {
			return rtc.NewSession(transportConfig)
		},
		NewSource: func(transport relay.Transport, track *webrtc.TrackRemote) (media.Source, error) {
			session, ok := transport.(*rtc.Session)
			if !ok {
				return nil, errors.New("app: inbound transport is not an rtc session")
			}
			return rtc.NewTrackSource(session, track, codec, pliInterval)
		},
		Outbound: outbound,
		Queue:    queue,
		Sink:     gate,
	}

	return relay.NewController(opts), nil
}

func settingsSource(conf config.Config, store signaling.Store) notify.SettingsSource {
	if rs, ok := store.(*signaling.RedisStore); ok {
		return notify.NewRedisSettings(rs.Client(), conf.Redis.Prefix)
	}
	return disabledSettings{}
}

func codecCapability(name string) (webrtc.RTPCodecCapability, error) {
	switch name {
	case "", "vp8":
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}, nil
	case "vp9":
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP9, ClockRate: 90000}, nil
	case "h264":
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, ClockRate: 90000}, nil
	}
	return webrtc.RTPCodecCapability{}, ErrUnknownCodec
}

type disabledSettings struct{}

func (disabledSettings) GetUserSettings(ctx context.Context, userID string) (notify.UserSettings, error) {
	return notify.UserSettings{}, nil
}
