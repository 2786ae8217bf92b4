// Package jquants provides a client for the J-Quants API.
//
// All data endpoints require a bearer token obtained from the refresh
// exchange (token.go) and are paginated via an opaque pagination key.
// The feed is end-of-period data, delayed on the order of weeks; records
// built from it must carry a delayed staleness note.
package jquants

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/interfaces"
	"github.com/shiradev/kabuto/internal/models"
)

const (
	DefaultBaseURL  = "https://api.jquants.com/v1"
	DefaultTimeout  = 30 * time.Second
	DefaultMaxPages = 50 // safety cap against runaway pagination
)

// Client implements the JQuantsClient interface
type Client struct {
	baseURL      string
	refreshToken string
	http         *resty.Client
	logger       *common.Logger
	maxPages     int

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time

	refreshGroup singleflight.Group
	now          func() time.Time // injectable clock for testing
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

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithMaxPages sets the pagination safety cap
func WithMaxPages(maxPages int) ClientOption {
	return func(c *Client) {
		if maxPages > 0 {
			c.maxPages = maxPages
		}
	}
}

// NewClient creates a new J-Quants client. refreshToken is the
// long-lived refresh secret; it may be empty, in which case every call
// fails with ErrNoRefreshToken and the caller degrades gracefully.
func NewClient(refreshToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		refreshToken: refreshToken,
		http:         resty.New().SetTimeout(DefaultTimeout),
		logger:       common.NewSilentLogger(),
		maxPages:     DefaultMaxPages,
		now:          time.Now,
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
	return fmt.Sprintf("jquants API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs one bearer-authenticated GET and decodes into result
func (c *Client) get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(params).
		SetResult(result).
		Get(c.baseURL + path)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Dur("elapsed", elapsed).Msg("jquants API request failed")
		return fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn().Str("path", path).Int("status", resp.StatusCode()).Dur("elapsed", elapsed).Msg("jquants API non-OK response")
		return &APIError{StatusCode: resp.StatusCode(), Message: string(resp.Body()), Endpoint: path}
	}

	c.logger.Debug().Str("path", path).Dur("elapsed", elapsed).Msg("jquants API call")
	return nil
}

type dailyQuoteRecord struct {
	Date   string   `json:"Date"`
	Code   string   `json:"Code"`
	Open   *float64 `json:"Open"`
	High   *float64 `json:"High"`
	Low    *float64 `json:"Low"`
	Close  *float64 `json:"Close"`
	Volume *float64 `json:"Volume"`
}

type dailyQuotesResponse struct {
	DailyQuotes   []dailyQuoteRecord `json:"daily_quotes"`
	PaginationKey string             `json:"pagination_key"`
}

func (r dailyQuoteRecord) toModel() models.DailyQuote {
	return models.DailyQuote{
		Code:   r.Code,
		Date:   r.Date,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}

// DailyQuotes retrieves the daily bar series for one code, oldest first
func (c *Client) DailyQuotes(ctx context.Context, code string) ([]models.DailyQuote, error) {
	return c.collectDailyQuotes(ctx, map[string]string{"code": code})
}

// DailyQuotesByDate retrieves one trading day across the whole listed
// universe. An empty result means the date was not a trading day.
func (c *Client) DailyQuotesByDate(ctx context.Context, date string) ([]models.DailyQuote, error) {
	return c.collectDailyQuotes(ctx, map[string]string{"date": date})
}

func (c *Client) collectDailyQuotes(ctx context.Context, params map[string]string) ([]models.DailyQuote, error) {
	var quotes []models.DailyQuote

	paginationKey := ""
	for page := 0; page < c.maxPages; page++ {
		p := make(map[string]string, len(params)+1)
		for k, v := range params {
			p[k] = v
		}
		if paginationKey != "" {
			p["pagination_key"] = paginationKey
		}

		var resp dailyQuotesResponse
		if err := c.get(ctx, "/prices/daily_quotes", p, &resp); err != nil {
			return nil, err
		}

		for _, r := range resp.DailyQuotes {
			quotes = append(quotes, r.toModel())
		}

		paginationKey = resp.PaginationKey
		if paginationKey == "" {
			return quotes, nil
		}
	}

	c.logger.Warn().Int("pages", c.maxPages).Msg("jquants daily quotes pagination cap reached")
	return quotes, nil
}

type listedInfoRecord struct {
	Code               string `json:"Code"`
	CompanyName        string `json:"CompanyName"`
	CompanyNameEnglish string `json:"CompanyNameEnglish"`
	MarketCodeName     string `json:"MarketCodeName"`
}

type listedInfoResponse struct {
	Info          []listedInfoRecord `json:"info"`
	PaginationKey string             `json:"pagination_key"`
}

// ListedInfo retrieves the full listed-instrument universe. Records
// without a code are malformed and dropped at this boundary.
func (c *Client) ListedInfo(ctx context.Context) ([]models.ListedEntry, error) {
	var entries []models.ListedEntry

	paginationKey := ""
	for page := 0; page < c.maxPages; page++ {
		params := map[string]string{}
		if paginationKey != "" {
			params["pagination_key"] = paginationKey
		}

		var resp listedInfoResponse
		if err := c.get(ctx, "/listed/info", params, &resp); err != nil {
			return nil, err
		}

		for _, r := range resp.Info {
			if r.Code == "" {
				continue
			}
			entries = append(entries, models.ListedEntry{
				Code:        r.Code,
				NativeName:  r.CompanyName,
				EnglishName: r.CompanyNameEnglish,
				Market:      r.MarketCodeName,
			})
		}

		paginationKey = resp.PaginationKey
		if paginationKey == "" {
			return entries, nil
		}
	}

	c.logger.Warn().Int("pages", c.maxPages).Msg("jquants listed info pagination cap reached")
	return entries, nil
}

// Ensure Client implements JQuantsClient
var _ interfaces.JQuantsClient = (*Client)(nil)
