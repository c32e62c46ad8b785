package track

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sender delivers one event path ("/api/click?id=...") to the edge.
// Delivery is a best-effort signal: callers discard the error after
// optionally logging it.
type Sender interface {
	Send(ctx context.Context, path string) error
}

// HTTPSender is the beacon-style Sender: short timeout, GET, response
// body drained and dropped.
type HTTPSender struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPSender) Send(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
