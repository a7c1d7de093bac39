// Package tokenlist fetches the published list of verified tokens.
package tokenlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kislikjeka/utxoscan/internal/infra/gateway"
	"github.com/kislikjeka/utxoscan/internal/metrics"
	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

const requestTimeout = 15 * time.Second

// List is the published token list document
type List struct {
	NetworkID int     `json:"networkId"`
	Tokens    []Token `json:"tokens"`
}

// Token is one verified token entry
type Token struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	LogoURI     string `json:"logoURI,omitempty"`
	Description string `json:"description,omitempty"`
}

// Client downloads the verified token list for one network
type Client struct {
	url        string
	networkID  int
	httpClient *http.Client
	metrics    *metrics.Gateway
	logger     *logger.Logger
}

var _ asset.TokenListProvider = (*Client)(nil)

// NewClient creates a token list client. A list published for a different
// networkId is rejected.
func NewClient(url string, networkID int, m *metrics.Gateway, log *logger.Logger) *Client {
	return &Client{
		url:        url,
		networkID:  networkID,
		httpClient: &http.Client{Timeout: requestTimeout},
		metrics:    m,
		logger:     log.WithField("component", "token_list"),
	}
}

// Fetch downloads and decodes the list
func (c *Client) Fetch(ctx context.Context) (list *List, err error) {
	started := time.Now()
	defer func() { c.metrics.Observe("fetch", err, started) }()

	if c.url == "" {
		return &List{NetworkID: c.networkID}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &gateway.APIError{Upstream: "token list", StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode token list: %w", err)
	}
	if list == nil {
		return nil, fmt.Errorf("empty token list document")
	}
	if list.NetworkID != c.networkID {
		return nil, fmt.Errorf("token list is for network %d, expected %d", list.NetworkID, c.networkID)
	}

	c.logger.Info("token list fetched", "count", len(list.Tokens), "duration_ms", time.Since(started).Milliseconds())
	return list, nil
}

// FetchTokenList implements asset.TokenListProvider
func (c *Client) FetchTokenList(ctx context.Context) ([]asset.Metadata, error) {
	list, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]asset.Metadata, 0, len(list.Tokens))
	for _, t := range list.Tokens {
		result = append(result, asset.Metadata{
			ID:          t.ID,
			Name:        t.Name,
			Symbol:      t.Symbol,
			Decimals:    t.Decimals,
			Type:        asset.TypeFungible,
			LogoURI:     t.LogoURI,
			Description: t.Description,
		})
	}
	return result, nil
}
