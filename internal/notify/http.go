package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const pushTimeout = 10 * time.Second

// HTTPPusher posts notifications to a push-provider gateway. The
// payload shape matches the common token/title/body providers; the
// provider itself stays outside this repository.
type HTTPPusher struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPPusher(endpoint, apiKey string) *HTTPPusher {
	return &HTTPPusher{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: pushTimeout},
	}
}

type pushRequest struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p *HTTPPusher) Push(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(pushRequest{To: token, Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("failed to encode push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	return nil
}

var _ Pusher = (*HTTPPusher)(nil)
