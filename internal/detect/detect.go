package detect

import (
	"github.com/HMasataka/lookout/pkg/media"
)

// Detector runs one inference pass over a frame and reports whether a
// person is present. Implementations are expected to be synchronous
// and safe to call at the inbound frame rate.
type Detector interface {
	Infer(frame media.Frame) (media.Frame, bool, error)
}

// Func adapts a plain function to Detector.
type Func func(frame media.Frame) (media.Frame, bool, error)

func (f Func) Infer(frame media.Frame) (media.Frame, bool, error) {
	return f(frame)
}

// Noop forwards frames untouched and never detects. Useful when the
// relay runs without a model attached.
func Noop() Detector {
	return Func(func(frame media.Frame) (media.Frame, bool, error) {
		return frame, false, nil
	})
}
