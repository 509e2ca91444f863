// Package twelvedata implements the market-data gateway against the
// TwelveData REST API. Upstream numeric fields arrive as strings; a
// single normalization step classifies each as present-valid,
// present-invalid, or absent before anything downstream sees it.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// Client handles communication with the TwelveData API
// ⭐ SSOT: TwelveData API calls happen only in this package
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	baseURL     string
	apiKey      string
	limiter     *rate.Limiter
	callTimeout time.Duration
}

// NewClient creates a new TwelveData client. The rate limiter spreads
// requests across the provider's per-minute credit budget.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	credits := cfg.TwelveData.CreditsPerMinute
	if credits <= 0 {
		credits = 55
	}

	return &Client{
		httpClient:  httpClient,
		logger:      log.WithField("module", "twelvedata"),
		baseURL:     cfg.TwelveData.BaseURL,
		apiKey:      cfg.TwelveData.APIKey,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(credits)), credits),
		callTimeout: cfg.TwelveData.CallTimeout,
	}
}

// apiError is the structured error payload TwelveData returns in place
// of data. It satisfies the uniform success/failure boundary: any
// transport, timeout, decode, or upstream-reported problem comes out of
// getJSON as a plain error.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// getJSON performs a rate-limited GET against an API endpoint and
// decodes the response into dest
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	// Per-call deadline so one slow upstream call cannot stall a whole
	// symbol's aggregation
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body failed: %w", err)
	}

	// TwelveData reports errors as a 200 with an error payload
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Status == "error" {
		return fmt.Errorf("upstream error %d: %s", apiErr.Code, apiErr.Message)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}

	return nil
}
