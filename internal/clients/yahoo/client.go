// Package yahoo provides a client for the public Yahoo Finance quote API
package yahoo

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

	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/interfaces"
	"github.com/shiradev/kabuto/internal/models"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	DefaultTimeout = 15 * time.Second

	quoteSummaryModules = "price,summaryDetail,defaultKeyStatistics,summaryProfile"
)

// ErrThrottled marks a detected rate-limit rejection from the provider.
// The chain treats it as a miss like any other failure, but logs it
// distinctly so operators can tell throttling from outages.
var ErrThrottled = errors.New("throttled by provider")

// Client implements the YahooClient interfaces against the public
// query endpoints, the same surface the original consumer scraped.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client.
// No API key is required — these are public endpoints.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a GET request and decodes the JSON body into result
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("path", path).Msg("yahoo API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Dur("elapsed", elapsed).Msg("yahoo API request failed")
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(strings.ToLower(string(body)), "too many requests") {
			c.logger.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("yahoo API throttled")
			return fmt.Errorf("%s: %w", path, ErrThrottled)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// FastInfo retrieves the cheap chart-meta price snapshot for a ticker.
// The result is a canonical-key Bag; a bag without a "price" key means
// the endpoint had no usable price and the caller should try Info.
func (c *Client) FastInfo(ctx context.Context, symbol string) (models.Bag, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	var raw map[string]any
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	if err := apiEnvelopeError(raw, "chart"); err != nil {
		return nil, err
	}

	return normalize(flatten(raw)), nil
}

// Info retrieves the full descriptive metadata for a ticker: name,
// valuation ratios, dividend figures, market cap, sector and profile.
func (c *Client) Info(ctx context.Context, symbol string) (models.Bag, error) {
	params := url.Values{}
	params.Set("modules", quoteSummaryModules)

	var raw map[string]any
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	if err := apiEnvelopeError(raw, "quoteSummary"); err != nil {
		return nil, err
	}

	return normalize(flatten(raw)), nil
}

// apiEnvelopeError returns an error when the response envelope carries a
// non-null "error" member or an empty result set.
func apiEnvelopeError(raw map[string]any, envelope string) error {
	outer, ok := raw[envelope].(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected %s response shape", envelope)
	}
	if e, ok := outer["error"]; ok && e != nil {
		return fmt.Errorf("%s error: %v", envelope, e)
	}
	if result, ok := outer["result"].([]any); ok && len(result) == 0 {
		return fmt.Errorf("%s returned no result", envelope)
	}
	return nil
}

// Ensure Client implements YahooClient
var _ interfaces.YahooClient = (*Client)(nil)
