package media

import (
	"context"
	"time"
)

// FrameはRTP受信側でデコードされた1枚の映像フレームを表します。
// Dataの所有権はFrameを受け取った側に移ります。
type Frame struct {
	// Data holds the frame payload. For a passthrough codec this is the
	// encoded access unit; a real decoder fills raw pixels.
	Data []byte

	Width  int
	Height int

	// Keyframe is true when the frame can be decoded standalone.
	Keyframe bool

	// Duration is the presentation duration of this frame. Zero means
	// the sender derives it from its own pacing clock.
	Duration time.Duration
}

// Source delivers inbound frames. Recv blocks until a frame is
// available, the source ends, or ctx is cancelled.
type Source interface {
	Recv(ctx context.Context) (Frame, error)
}

// Decoder turns one encoded access unit into a Frame.
type Decoder interface {
	Decode(data []byte, keyframe bool) (Frame, error)
}

// Encoder turns a Frame back into an encoded access unit.
type Encoder interface {
	Encode(frame Frame) ([]byte, error)
}
