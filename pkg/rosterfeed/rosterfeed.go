// Package rosterfeed provides a client for fetching a club's member list from
// an external roster service.
package rosterfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tosh-m12/courtmatch/internal/logger"
)

// FlexString is a string type that can be unmarshaled from either a string or a number.
// Roster services disagree on whether member ids are numeric.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: cannot unmarshal %s", string(data))
}

// String returns the string value
func (f FlexString) String() string {
	return string(f)
}

// Member is one entry of a roster feed
type Member struct {
	ID     FlexString `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Active *bool      `json:"active"` // nil means active
}

// IsActive reports whether the member should be imported
func (m Member) IsActive() bool {
	return m.Active == nil || *m.Active
}

// DisplayName is the trimmed member name
func (m Member) DisplayName() string {
	return strings.TrimSpace(m.Name)
}

// RosterResponse is the body returned by the roster endpoint
type RosterResponse struct {
	Members []Member `json:"members"`
}

// Client defines the interface for roster feed operations
type Client interface {
	// FetchRoster retrieves every member from the feed
	FetchRoster(ctx context.Context) ([]Member, error)
	// BaseURL returns the configured feed URL
	BaseURL() string
	// SetBaseURL updates the feed URL
	SetBaseURL(url string)
	// SetToken configures a bearer token sent with each request
	SetToken(token string)
}

// HTTPClient fetches rosters over HTTP
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a roster feed client with the given request timeout
func NewHTTPClient(baseURL string, timeout time.Duration, log logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// NewHTTPClientWithHTTPClient creates a roster feed client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured feed URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the feed URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetToken configures a bearer token sent with each request
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// FetchRoster retrieves every member from the feed. The feed must answer a
// GET on its URL with {"members": [...]}.
func (c *HTTPClient) FetchRoster(ctx context.Context) ([]Member, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("roster feed URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("Roster feed request", "method", "GET", "url", c.baseURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to roster feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Roster feed response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster feed returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response RosterResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return response.Members, nil
}

var _ Client = (*HTTPClient)(nil)
