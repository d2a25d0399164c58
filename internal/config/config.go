package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/HMasataka/lookout/internal/relay"
	"github.com/HMasataka/lookout/internal/signaling"
	"github.com/HMasataka/lookout/pkg/rtc"
)

type Config struct {
	Redis   signaling.RedisOptions `toml:"redis"`
	WebRTC  rtc.Config             `toml:"webrtc"`
	Turn    rtc.TurnConfig         `toml:"turn"`
	Relay   RelayConfig            `toml:"relay"`
	Detect  DetectConfig           `toml:"detect"`
	Notify  NotifyConfig           `toml:"notify"`
	Control ControlConfig          `toml:"control"`
}

type RelayConfig struct {
	QueueCapacity int    `toml:"queuecapacity"`
	FrameRate     int    `toml:"framerate"`
	PLIIntervalMS int    `toml:"pliinterval"`
	Codec         string `toml:"codec"`
}

type DetectConfig struct {
	Endpoint string `toml:"endpoint"`
}

type NotifyConfig struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"apikey"`
}

type ControlConfig struct {
	Addr      string `toml:"addr"`
	JWTSecret string `toml:"jwtsecret"`
}

func Default() Config {
	return Config{
		Redis:  signaling.DefaultRedisOptions(),
		WebRTC: rtc.DefaultConfig(),
		Relay: RelayConfig{
			QueueCapacity: relay.DefaultQueueCapacity,
			FrameRate:     30,
			PLIIntervalMS: 3000,
			Codec:         "vp8",
		},
		Control: ControlConfig{
			Addr: ":8080",
		},
	}
}

func Load(path string) (Config, error) {
	c := Default()

	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return c, nil
}
