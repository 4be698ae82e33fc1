package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"
	"unicode"

	"github.com/speedwagon-io/machinedash/internal/collector"
)

// HTTPClient allows injecting a fake transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type CSVFeedAdapter struct {
	log    *slog.Logger
	url    string
	client HTTPClient
}

// NewCSVFeedAdapter reads the feed at url. A zero timeout means the request
// is bounded only by its context.
func NewCSVFeedAdapter(log *slog.Logger, url string, timeout time.Duration) *CSVFeedAdapter {
	return NewCSVFeedAdapterWithClient(log, url, &http.Client{Timeout: timeout})
}

func NewCSVFeedAdapterWithClient(log *slog.Logger, url string, client HTTPClient) *CSVFeedAdapter {
	return &CSVFeedAdapter{
		log:    log,
		url:    url,
		client: client,
	}
}

func (a *CSVFeedAdapter) Name() string {
	return "csv_feed"
}

func (a *CSVFeedAdapter) Close() error {
	if c, ok := a.client.(*http.Client); ok {
		c.CloseIdleConnections()
	}
	return nil
}

func (a *CSVFeedAdapter) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %w", collector.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code: %d", collector.ErrNetworkFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", collector.ErrNetworkFailure, err)
	}

	// Unpublished spreadsheets answer 200 with an HTML sign-in page.
	if isHTML(resp.Header.Get("Content-Type"), body) {
		return nil, fmt.Errorf("%w: got an HTML page instead of CSV", collector.ErrMalformedFeed)
	}

	a.log.Debug("feed fetched",
		slog.String("url", a.url),
		slog.Int("bytes", len(body)),
	)

	return body, nil
}

const htmlSniffLen = 16

func isHTML(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/html" {
		return true
	}
	head := bytes.TrimLeftFunc(body, unicode.IsSpace)
	if len(head) > htmlSniffLen {
		head = head[:htmlSniffLen]
	}
	head = bytes.ToLower(head)
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
