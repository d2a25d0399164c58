package media

// PassthroughCodec relays encoded access units without touching the
// payload. It is the production default when the detector consumes
// encoded frames (or when detection runs in a sidecar that decodes for
// itself); a real decoder/encoder pair replaces it when raw pixels are
// needed in-process.
type PassthroughCodec struct{}

func NewPassthroughCodec() PassthroughCodec {
	return PassthroughCodec{}
}

func (PassthroughCodec) Decode(data []byte, keyframe bool) (Frame, error) {
	return Frame{Data: data, Keyframe: keyframe}, nil
}

func (PassthroughCodec) Encode(frame Frame) ([]byte, error) {
	return frame.Data, nil
}
