package coverart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crate/internal/services"
)

// Front covers are capped to keep a misbehaving server from exhausting memory.
const maxImageBytes = 32 << 20

// Fetcher defines the cover retrieval operation the fetch gateway uses.
type Fetcher interface {
	FrontCover(ctx context.Context, releaseID string) ([]byte, string, error)
}

// Client fetches cover images from the Cover Art Archive.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Cover Art Archive client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("coverart base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FrontCover downloads the front cover image for a release and returns the
// raw bytes with the server-reported content type. A release with no cover
// comes back as a not-found error.
func (c *Client) FrontCover(ctx context.Context, releaseID string) ([]byte, string, error) {
	releaseID = strings.TrimSpace(releaseID)
	if releaseID == "" {
		return nil, "", errors.New("release id must not be empty")
	}
	endpoint := c.baseURL + "/release/" + url.PathEscape(releaseID) + "/front"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, "", services.Wrap(services.ErrExternalService, "coverart", "front cover",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", services.Wrap(services.ErrNotFound, "coverart", "front cover",
			fmt.Sprintf("release %s has no front cover (latency=%v)", releaseID, latency), nil)
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		return nil, "", services.Wrap(services.ErrTransient, "coverart", "front cover",
			fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, "", services.Wrap(services.ErrExternalService, "coverart", "front cover",
			fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read cover image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", services.Wrap(services.ErrExternalService, "coverart", "front cover",
			fmt.Sprintf("image exceeds %d bytes", maxImageBytes), nil)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
