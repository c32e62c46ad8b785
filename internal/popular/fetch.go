package popular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves the raw top-N response body for a mode. The panel
// folds every transport problem into one user-facing error.
type Fetcher interface {
	FetchTop(ctx context.Context, mode string) ([]byte, error)
}

// fetchLimit asks for more rows than the panel displays so that
// filtered rows (test entries, empty ids) do not shorten the list.
const fetchLimit = 25

// HTTPFetcher fetches /api/top from the popularity API, bypassing any
// intermediary caches.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *HTTPFetcher) FetchTop(ctx context.Context, mode string) ([]byte, error) {
	q := "/api/top?limit=" + fmt.Sprint(fetchLimit) + "&mode=" + url.QueryEscape(mode)
	if mode == "trending" {
		q += "&days=7"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// Row is one entry of a parsed ranking response.
type Row struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// TopResult is the validated shape of a ranking response.
type TopResult struct {
	Mode string
	Rows []Row
}

// ErrBadResponse covers every malformed-response case: non-JSON body,
// ok=false, unknown mode, missing top array.
var ErrBadResponse = errors.New("malformed top response")

// ParseTop validates a raw response body into a TopResult. Any shape
// problem yields ErrBadResponse; rendering never sees partial data.
func ParseTop(body []byte) (*TopResult, error) {
	var raw struct {
		OK   bool            `json:"ok"`
		Mode string          `json:"mode"`
		Top  json.RawMessage `json:"top"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrBadResponse
	}
	if !raw.OK || len(raw.Top) == 0 {
		return nil, ErrBadResponse
	}
	if raw.Mode != "all" && raw.Mode != "trending" {
		return nil, ErrBadResponse
	}
	var rows []Row
	if err := json.Unmarshal(raw.Top, &rows); err != nil {
		return nil, ErrBadResponse
	}
	return &TopResult{Mode: raw.Mode, Rows: rows}, nil
}
