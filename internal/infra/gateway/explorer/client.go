package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kislikjeka/utxoscan/internal/infra/gateway"
	"github.com/kislikjeka/utxoscan/internal/metrics"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3

	// MaxPageLimit is the largest page size the explorer accepts
	MaxPageLimit = 100
)

// Client is an HTTP client for the explorer backend REST API
type Client struct {
	httpClient     *http.Client
	baseURL        string
	initialBackoff time.Duration
	metrics        *metrics.Gateway
	logger         *logger.Logger
}

// NewClient creates a new explorer API client
func NewClient(baseURL string, m *metrics.Gateway, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:        strings.TrimRight(baseURL, "/"),
		initialBackoff: time.Second,
		metrics:        m,
		logger:         log.WithField("component", "explorer"),
	}
}

// SetBaseURL overrides the base URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetInitialBackoff overrides the first 429 backoff (useful for testing)
func (c *Client) SetInitialBackoff(d time.Duration) {
	c.initialBackoff = d
}

// GetTransaction fetches one transaction by hash, confirmed or pending
func (c *Client) GetTransaction(ctx context.Context, hash string) (tx *Transaction, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("get_transaction", err, started) }()

	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/transactions/"+url.PathEscape(hash), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("GetTransaction failed: %w", err)
	}

	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return tx, nil
}

// GetAddressTransactions fetches one page (1-based) of confirmed transactions, newest first
func (c *Client) GetAddressTransactions(ctx context.Context, address string, page, limit int) (txs []Transaction, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("get_address_transactions", err, started) }()

	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))
	params.Set("limit", strconv.Itoa(clampLimit(limit)))

	reqURL := fmt.Sprintf("%s/addresses/%s/transactions", c.baseURL, url.PathEscape(address))
	body, err := c.doRequest(ctx, http.MethodGet, reqURL, params, nil)
	if err != nil {
		return nil, fmt.Errorf("GetAddressTransactions failed: %w", err)
	}

	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	c.logger.Debug("transactions fetched", "address", address, "page", page, "count", len(txs),
		"duration_ms", time.Since(started).Milliseconds())
	return txs, nil
}

// GetAddressMempoolTransactions fetches the pending transactions touching address
func (c *Client) GetAddressMempoolTransactions(ctx context.Context, address string) (txs []Transaction, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("get_mempool_transactions", err, started) }()

	reqURL := fmt.Sprintf("%s/addresses/%s/mempool/transactions", c.baseURL, url.PathEscape(address))
	body, err := c.doRequest(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("GetAddressMempoolTransactions failed: %w", err)
	}

	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode mempool transactions: %w", err)
	}
	return txs, nil
}

// GetTokenInfos returns the standard interface of each token id
func (c *Client) GetTokenInfos(ctx context.Context, ids []string) (infos []TokenInfo, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("get_token_infos", err, started) }()

	if len(ids) == 0 {
		return nil, nil
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/tokens", nil, ids)
	if err != nil {
		return nil, fmt.Errorf("GetTokenInfos failed: %w", err)
	}

	if err := json.Unmarshal(body, &infos); err != nil {
		return nil, fmt.Errorf("failed to decode token infos: %w", err)
	}
	return infos, nil
}

// Ping checks that the explorer backend is reachable
func (c *Client) Ping(ctx context.Context) (err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("infos", err, started) }()

	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/infos", nil, nil)
	if err != nil {
		return fmt.Errorf("explorer ping failed: %w", err)
	}

	var infos Infos
	if err := json.Unmarshal(body, &infos); err != nil {
		return fmt.Errorf("failed to decode infos: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request with rate-limit retry.
// It retries up to maxRetries times with exponential backoff (1s, 2s, 4s) on 429 responses.
func (c *Client) doRequest(ctx context.Context, method, reqURL string, params url.Values, payload interface{}) ([]byte, error) {
	if len(params) > 0 {
		reqURL = reqURL + "?" + params.Encode()
	}

	var payloadBytes []byte
	if payload != nil {
		var err error
		payloadBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	backoff := c.initialBackoff
	for attempt := 0; attempt <= maxRetries; attempt++ {
		c.logger.Debug("API request", "method", method, "url", reqURL, "attempt", attempt)
		attemptStart := time.Now()

		var reqBody io.Reader
		if payloadBytes != nil {
			reqBody = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payloadBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			c.logger.Debug("API response", "status_code", resp.StatusCode, "duration_ms", time.Since(attemptStart).Milliseconds())
			return body, nil
		case http.StatusNotFound:
			return nil, gateway.ErrNotFound
		case http.StatusTooManyRequests:
			if attempt == maxRetries {
				c.logger.Error("rate limit exhausted", "attempts", maxRetries+1)
				return nil, &gateway.RateLimitError{
					RetryAfter: backoff,
					Message:    "explorer API rate limit exceeded after retries",
				}
			}
			c.logger.Warn("rate limited, retrying", "attempt", attempt, "backoff_ms", backoff.Milliseconds())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				continue
			}
		}

		c.logger.Error("API error", "status_code", resp.StatusCode)
		return nil, &gateway.APIError{Upstream: "explorer", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil, fmt.Errorf("explorer API: exhausted retries")
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
