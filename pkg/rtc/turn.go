package rtc

import (
	"errors"
	"net"
	"strings"

	"github.com/pion/logging"
	"github.com/pion/turn/v2"
)

const (
	turnMinPort = uint16(32768)
	turnMaxPort = uint16(46883)
)

type TurnConfig struct {
	Enabled   bool     `toml:"enabled"`
	Realm     string   `toml:"realm"`
	Address   string   `toml:"address"`
	PortRange []uint16 `toml:"portrange"`
	Auth      TurnAuth `toml:"auth"`
}

type TurnAuth struct {
	// Credentials is a comma separated list of user=password pairs.
	Credentials string `toml:"credentials"`
}

// NewTurnServer starts the embedded TURN server when relaying through a
// separate deployment is not an option.
func NewTurnServer(conf TurnConfig) (*turn.Server, error) {
	if conf.Realm == "" {
		conf.Realm = "lookout"
	}

	addr, err := net.ResolveUDPAddr("udp", conf.Address)
	if err != nil {
		return nil, err
	}

	udpListener, err := net.ListenPacket("udp4", conf.Address)
	if err != nil {
		return nil, err
	}

	usersMap := map[string][]byte{}
	for _, pair := range strings.Split(conf.Auth.Credentials, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, errors.New("invalid turn credential pair: " + pair)
		}
		usersMap[parts[0]] = turn.GenerateAuthKey(parts[0], conf.Realm, parts[1])
	}

	if len(usersMap) == 0 {
		return nil, errors.New("turn enabled but no credentials configured")
	}

	minPort, maxPort := turnMinPort, turnMaxPort
	if len(conf.PortRange) == 2 {
		minPort, maxPort = conf.PortRange[0], conf.PortRange[1]
	}

	return turn.NewServer(turn.ServerConfig{
		Realm:         conf.Realm,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
		AuthHandler: func(username, realm string, srcAddr net.Addr) ([]byte, bool) {
			key, ok := usersMap[username]
			return key, ok
		},
		PacketConnConfigs: []turn.PacketConnConfig{
			{
				PacketConn: udpListener,
				RelayAddressGenerator: &turn.RelayAddressGeneratorPortRange{
					RelayAddress: addr.IP,
					Address:      "0.0.0.0",
					MinPort:      minPort,
					MaxPort:      maxPort,
				},
			},
		},
	})
}
