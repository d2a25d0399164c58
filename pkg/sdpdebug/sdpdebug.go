package sdpdebug

import (
	"log/slog"
	"strings"

	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
)

// LogDescription logs a compact summary of a session description at
// debug level: media sections, directions and embedded candidate count.
// Intended around SetRemoteDescription / SetLocalDescription so a
// failing negotiation can be read from the logs without dumping SDP.
func LogDescription(label string, sd webrtc.SessionDescription) {
	var parsed sdp.SessionDescription
	if err := parsed.Unmarshal([]byte(sd.SDP)); err != nil {
		slog.Debug("sdp summary unavailable",
			slog.String("label", label),
			slog.String("type", sd.Type.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	var sections []string
	candidates := 0

	for _, m := range parsed.MediaDescriptions {
		direction := ""
		for _, attr := range m.Attributes {
			switch attr.Key {
			case "sendrecv", "sendonly", "recvonly", "inactive":
				direction = attr.Key
			case "candidate":
				candidates++
			}
		}

		section := m.MediaName.Media
		if direction != "" {
			section += "/" + direction
		}
		sections = append(sections, section)
	}

	slog.Debug("sdp summary",
		slog.String("label", label),
		slog.String("type", sd.Type.String()),
		slog.String("media", strings.Join(sections, ",")),
		slog.Int("embedded_candidates", candidates),
	)
}
