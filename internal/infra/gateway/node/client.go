package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.uber.org/ratelimit"

	"github.com/kislikjeka/utxoscan/internal/infra/gateway"
	"github.com/kislikjeka/utxoscan/internal/metrics"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	apiKeyHeader   = "X-API-KEY"

	// MaxBatchSize is the number of token ids sent per metadata request
	MaxBatchSize = 80

	ipfsGateway = "https://ipfs.io/ipfs/"

	documentTimeout      = 5 * time.Second
	maxDocumentRedirects = 3

	// MaxDocumentSize bounds an NFT document body
	MaxDocumentSize = 256 << 10
)

var (
	// ErrDocumentURI is returned for token URIs that are not https or ipfs
	ErrDocumentURI = errors.New("unsupported document uri")
	// ErrBlockedAddress is returned when a document host is not a public address
	ErrBlockedAddress = errors.New("document host is not a public address")
	// ErrDocumentTooLarge is returned when a document exceeds MaxDocumentSize
	ErrDocumentTooLarge = errors.New("document too large")
)

// Client is an HTTP client for the full node REST API
type Client struct {
	apiKey          string
	httpClient      *http.Client
	documentClient  *http.Client
	documentSchemes []string
	baseURL        string
	limiter        ratelimit.Limiter
	initialBackoff time.Duration
	metrics        *metrics.Gateway
	logger         *logger.Logger
}

// NewClient creates a new node API client. rps bounds outgoing node requests.
func NewClient(baseURL, apiKey string, rps int, m *metrics.Gateway, log *logger.Logger) *Client {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		documentClient:  newDocumentClient(),
		documentSchemes: []string{"https"},
		baseURL:        strings.TrimRight(baseURL, "/"),
		limiter:        limiter,
		initialBackoff: time.Second,
		metrics:        m,
		logger:         log.WithField("component", "node"),
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

// GetFungibleMetadata fetches raw fungible token metadata, batching ids
func (c *Client) GetFungibleMetadata(ctx context.Context, ids []string) (result []FungibleTokenMetadata, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("fungible_metadata", err, started) }()

	for _, batch := range chunk(ids, MaxBatchSize) {
		body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/tokens/fungible-metadata", batch)
		if err != nil {
			return nil, fmt.Errorf("GetFungibleMetadata failed: %w", err)
		}

		var items []FungibleTokenMetadata
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode fungible metadata: %w", err)
		}
		result = append(result, items...)
	}
	return result, nil
}

// GetNFTMetadata fetches NFT metadata, filling missing ids from request order
func (c *Client) GetNFTMetadata(ctx context.Context, ids []string) (result []NFTMetadata, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("nft_metadata", err, started) }()

	for _, batch := range chunk(ids, MaxBatchSize) {
		body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/tokens/nft-metadata", batch)
		if err != nil {
			return nil, fmt.Errorf("GetNFTMetadata failed: %w", err)
		}

		var items []NFTMetadata
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode nft metadata: %w", err)
		}
		for i := range items {
			if items[i].ID == "" && i < len(batch) {
				items[i].ID = batch[i]
			}
		}
		result = append(result, items...)
	}
	return result, nil
}

// GetNFTDocument fetches the JSON document a token URI points to. ipfs://
// URIs are rewritten to a public gateway. These requests go to arbitrary
// hosts, so they skip the node limiter and API key and only dial public
// addresses.
func (c *Client) GetNFTDocument(ctx context.Context, uri string) (doc *NFTDocument, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("nft_document", err, started) }()

	body, err := c.fetchDocument(ctx, ResolveURI(uri))
	if err != nil {
		return nil, fmt.Errorf("GetNFTDocument failed: %w", err)
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode nft document: %w", err)
	}
	if doc != nil {
		doc.Image = ResolveURI(doc.Image)
	}
	return doc, nil
}

func (c *Client) fetchDocument(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || !c.documentScheme(u.Scheme) {
		return nil, fmt.Errorf("%w: %q", ErrDocumentURI, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, documentTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.documentClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, MaxDocumentSize)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, gateway.ErrNotFound
	}
	return nil, &gateway.APIError{Upstream: "nft-document", StatusCode: resp.StatusCode, Body: string(body)}
}

func (c *Client) documentScheme(scheme string) bool {
	for _, s := range c.documentSchemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}

func newDocumentClient() *http.Client {
	dialer := &net.Dialer{Timeout: documentTimeout, Control: publicOnly}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{
		Timeout:   documentTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxDocumentRedirects {
				return fmt.Errorf("stopped after %d redirects", maxDocumentRedirects)
			}
			if req.URL.Scheme != "https" {
				return fmt.Errorf("%w: redirect to %q", ErrDocumentURI, req.URL.String())
			}
			return nil
		},
	}
}

// publicOnly runs after DNS resolution, so it also covers hostnames that
// resolve to internal addresses.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

func isPublicIP(ip net.IP) bool {
	return !ip.IsLoopback() &&
		!ip.IsPrivate() &&
		!ip.IsUnspecified() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsInterfaceLocalMulticast() &&
		!ip.IsMulticast()
}

// ResolveURI maps ipfs:// URIs to an HTTP gateway; others pass through
func ResolveURI(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return ipfsGateway + strings.TrimPrefix(rest, "ipfs/")
	}
	return uri
}

// doRequest performs an HTTP request with rate-limit retry.
// It retries up to maxRetries times with exponential backoff (1s, 2s, 4s) on 429 responses.
func (c *Client) doRequest(ctx context.Context, method, reqURL string, payload interface{}) ([]byte, error) {
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
		c.limiter.Take()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
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
		if c.apiKey != "" {
			req.Header.Set(apiKeyHeader, c.apiKey)
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
					Message:    "node API rate limit exceeded after retries",
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
		return nil, &gateway.APIError{Upstream: "node", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil, fmt.Errorf("node API: exhausted retries")
}

func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
