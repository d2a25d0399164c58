package rtc

import (
	"net"
	"time"

	"github.com/pion/ice/v4"
	"github.com/pion/webrtc/v4"
)

type Config struct {
	ICESinglePort int               `toml:"singleport"`
	ICEPortRange  []uint16          `toml:"portrange"`
	ICEServers    []ICEServerConfig `toml:"iceserver"`
	SDPSemantics  string            `toml:"sdpsemantics"`
	MDNS          bool              `toml:"mdns"`
	Candidates    Candidates        `toml:"candidates"`
	Timeouts      TimeoutsConfig    `toml:"timeouts"`
}

type ICEServerConfig struct {
	URLs       []string `toml:"urls"`
	Username   string   `toml:"username"`
	Credential string   `toml:"credential"`
}

type Candidates struct {
	IceLite    bool     `toml:"icelite"`
	NAT1To1IPs []string `toml:"nat1to1"`
}

type TimeoutsConfig struct {
	ICEDisconnectedTimeout int `toml:"disconnected"`
	ICEFailedTimeout       int `toml:"failed"`
	ICEKeepaliveInterval   int `toml:"keepalive"`
}

func DefaultConfig() Config {
	return Config{
		ICEServers: []ICEServerConfig{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
		MDNS: false,
	}
}

// TransportConfig is the compiled form handed to sessions.
type TransportConfig struct {
	Configuration webrtc.Configuration
	Setting       webrtc.SettingEngine
}

func NewTransportConfig(c Config) TransportConfig {
	se := webrtc.SettingEngine{}

	if c.ICESinglePort != 0 {
		udpListener, err := net.ListenUDP("udp", &net.UDPAddr{
			IP:   net.IP{0, 0, 0, 0},
			Port: c.ICESinglePort,
		})
		if err != nil {
			panic(err)
		}
		se.SetICEUDPMux(webrtc.NewICEUDPMux(nil, udpListener))
	} else if len(c.ICEPortRange) == 2 {
		if err := se.SetEphemeralUDPPortRange(c.ICEPortRange[0], c.ICEPortRange[1]); err != nil {
			panic(err)
		}
	}

	var iceServers []webrtc.ICEServer
	if c.Candidates.IceLite {
		se.SetLite(c.Candidates.IceLite)
	} else {
		for _, iceServer := range c.ICEServers {
			s := webrtc.ICEServer{
				URLs:       iceServer.URLs,
				Username:   iceServer.Username,
				Credential: iceServer.Credential,
			}
			iceServers = append(iceServers, s)
		}
	}

	sdpSemantics := webrtc.SDPSemanticsUnifiedPlan
	switch c.SDPSemantics {
	case "unified-plan-with-fallback":
		sdpSemantics = webrtc.SDPSemanticsUnifiedPlanWithFallback
	case "plan-b":
		sdpSemantics = webrtc.SDPSemanticsPlanB
	}

	if c.Timeouts.ICEDisconnectedTimeout == 0 &&
		c.Timeouts.ICEFailedTimeout == 0 &&
		c.Timeouts.ICEKeepaliveInterval == 0 {
	} else {
		se.SetICETimeouts(
			time.Duration(c.Timeouts.ICEDisconnectedTimeout)*time.Second,
			time.Duration(c.Timeouts.ICEFailedTimeout)*time.Second,
			time.Duration(c.Timeouts.ICEKeepaliveInterval)*time.Second,
		)
	}

	w := TransportConfig{
		Configuration: webrtc.Configuration{
			ICEServers:   iceServers,
			SDPSemantics: sdpSemantics,
		},
		Setting: se,
	}

	if len(c.Candidates.NAT1To1IPs) > 0 {
		w.Setting.SetNAT1To1IPs(c.Candidates.NAT1To1IPs, webrtc.ICECandidateTypeHost)
	}

	if !c.MDNS {
		w.Setting.SetICEMulticastDNSMode(ice.MulticastDNSModeDisabled)
	}

	return w
}
