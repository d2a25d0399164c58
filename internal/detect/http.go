package detect

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/HMasataka/lookout/pkg/media"
)

const inferTimeout = 2 * time.Second

// HTTPDetector sends each frame to an inference sidecar. The sidecar
// owns the model; this process only relays the verdict and, when the
// sidecar annotates, the replacement frame.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
}

func NewHTTPDetector(endpoint string) *HTTPDetector {
	return &HTTPDetector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: inferTimeout},
	}
}

type inferResponse struct {
	PersonFound bool   `json:"personFound"`
	Frame       string `json:"frame,omitempty"` // base64, empty means unannotated
}

func (d *HTTPDetector) Infer(frame media.Frame) (media.Frame, bool, error) {
	req, err := http.NewRequest(http.MethodPost, d.endpoint, bytes.NewReader(frame.Data))
	if err != nil {
		return media.Frame{}, false, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Frame-Width", strconv.Itoa(frame.Width))
	req.Header.Set("X-Frame-Height", strconv.Itoa(frame.Height))
	req.Header.Set("X-Frame-Keyframe", strconv.FormatBool(frame.Keyframe))

	resp, err := d.client.Do(req)
	if err != nil {
		return media.Frame{}, false, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return media.Frame{}, false, fmt.Errorf("inference sidecar returned status %d", resp.StatusCode)
	}

	var result inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return media.Frame{}, false, fmt.Errorf("failed to decode inference response: %w", err)
	}

	if result.Frame != "" {
		annotated, err := base64.StdEncoding.DecodeString(result.Frame)
		if err != nil {
			return media.Frame{}, false, fmt.Errorf("failed to decode annotated frame: %w", err)
		}
		frame.Data = annotated
	}

	return frame, result.PersonFound, nil
}

var _ Detector = (*HTTPDetector)(nil)
