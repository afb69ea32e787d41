// Package woocommerce is a small client for the WooCommerce REST API (v3): enough to
// verify a store connection and fetch new orders.
package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mrlokans/wooauto/internal/siteurl"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultPerPage = 20
	MaxPerPage     = 100

	userAgent = "WooAuto/1.0 (https://github.com/mrlokans/wooauto)"
)

var ErrNotConfigured = errors.New("woocommerce connection is not configured")

// Config holds the store connection.
type Config struct {
	// SiteURL is the store address in any form the user typed it.
	SiteURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// APIError is a non-2xx response from the store.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("woocommerce api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("woocommerce api: status %d", e.StatusCode)
}

// Client talks to one store.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
}

// NewClient creates a client. The API base URL is derived from cfg.SiteURL.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        siteurl.BuildAPIBaseURL(cfg.SiteURL),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
	}
}

// BaseURL returns the API base URL, ending in "/wp-json/wc/v3/".
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsConfigured reports whether the base URL and both credentials are present.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.consumerKey != "" && c.consumerSecret != ""
}

// TestConnection checks that the store is reachable and the credentials are accepted.
func (c *Client) TestConnection(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := c.get(ctx, "system_status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListOrders returns orders matching opts, newest first.
func (c *Client) ListOrders(ctx context.Context, opts ListOptions) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "orders", opts.query(), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	return apiErr
}

// ListOptions filters ListOrders.
type ListOptions struct {
	Status  string    // e.g. "processing"; empty means any
	After   time.Time // Only orders created after this instant
	PerPage int       // Default: 20, max: 100
	Page    int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if !o.After.IsZero() {
		q.Set("after", o.After.UTC().Format(time.RFC3339))
	}
	perPage := o.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	q.Set("per_page", strconv.Itoa(perPage))
	if o.Page > 1 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	q.Set("orderby", "date")
	q.Set("order", "desc")
	return q
}
