package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crate/internal/services"
)

// ArtistCredit is one credited artist on a release.
type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

// Release represents a single MusicBrainz release match.
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	Score        int            `json:"score"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
}

// Artist joins the credited artist names including join phrases.
func (r Release) Artist() string {
	var builder strings.Builder
	for _, credit := range r.ArtistCredit {
		builder.WriteString(credit.Name)
		builder.WriteString(credit.JoinPhrase)
	}
	return builder.String()
}

// SearchResponse models the MusicBrainz release search payload.
type SearchResponse struct {
	Count    int       `json:"count"`
	Offset   int       `json:"offset"`
	Releases []Release `json:"releases"`
}

// Searcher defines the MusicBrainz operations the fetch gateway uses.
type Searcher interface {
	SearchRelease(ctx context.Context, query string, limit int) (*SearchResponse, error)
	LookupRelease(ctx context.Context, releaseID string) (*Release, error)
}

// Client provides access to the MusicBrainz web service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

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

// New creates a MusicBrainz client. The user agent is mandatory; the service
// rejects anonymous clients.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchRelease searches releases with a Lucene query string.
func (c *Client) SearchRelease(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}
	endpoint, err := url.Parse(c.baseURL + "/release")
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))
	endpoint.RawQuery = params.Encode()

	var payload SearchResponse
	if err := c.get(ctx, endpoint.String(), "release search", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LookupRelease fetches a single release by its MBID.
func (c *Client) LookupRelease(ctx context.Context, releaseID string) (*Release, error) {
	releaseID = strings.TrimSpace(releaseID)
	if releaseID == "" {
		return nil, errors.New("release id must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/release/" + url.PathEscape(releaseID))
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("fmt", "json")
	params.Set("inc", "artist-credits")
	endpoint.RawQuery = params.Encode()

	var payload Release
	if err := c.get(ctx, endpoint.String(), "release lookup", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, endpoint, operation string, payload any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "musicbrainz", operation,
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "musicbrainz", operation,
			fmt.Sprintf("returned 404 (latency=%v)", latency), nil)
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		// 503 is how the service signals rate-limit violations.
		return services.Wrap(services.ErrTransient, "musicbrainz", operation,
			fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	case resp.StatusCode != http.StatusOK:
		return services.Wrap(services.ErrExternalService, "musicbrainz", operation,
			fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("decode musicbrainz response: %w", err)
	}
	return nil
}
