// Package quote fetches live stock quotes over HTTP.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rustyeddy/papertrade/market"
	"github.com/shopspring/decimal"
)

const (
	// CloudURL is the production IEX Cloud endpoint.
	CloudURL = "https://cloud.iexapis.com"
	// SandboxURL serves randomized test data.
	SandboxURL = "https://sandbox.iexapis.com"

	defaultTimeout = 10 * time.Second
)

// Client is a market.Quoter backed by an IEX style REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a quote client. A zero timeout selects the default.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = CloudURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiQuote is the subset of the quote response we read.
type apiQuote struct {
	Symbol      string           `json:"symbol"`
	CompanyName string           `json:"companyName"`
	LatestPrice *decimal.Decimal `json:"latestPrice"`
}

// Quote fetches the latest price for symbol.
//
// Unknown tickers map to market.ErrSymbolNotFound. Everything else that
// keeps us from a usable positive price maps to market.ErrQuoteUnavailable.
func (c *Client) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	symbol = market.NormalizeSymbol(symbol)
	if symbol == "" {
		return market.Quote{}, fmt.Errorf("quote: empty symbol: %w", market.ErrSymbolNotFound)
	}

	params := url.Values{}
	params.Set("token", c.token)
	apiURL := fmt.Sprintf("%s/stable/stock/%s/quote?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return market.Quote{}, fmt.Errorf("quote %s: create request: %w: %w", symbol, market.ErrQuoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return market.Quote{}, fmt.Errorf("quote %s: execute request: %w: %w", symbol, market.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, market.ErrSymbolNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return market.Quote{}, fmt.Errorf("quote %s: API error (status %d): %s: %w",
			symbol, resp.StatusCode, string(body), market.ErrQuoteUnavailable)
	}

	var aq apiQuote
	if err := json.NewDecoder(resp.Body).Decode(&aq); err != nil {
		return market.Quote{}, fmt.Errorf("quote %s: decode response: %w: %w", symbol, market.ErrQuoteUnavailable, err)
	}
	if aq.LatestPrice == nil || !aq.LatestPrice.IsPositive() {
		return market.Quote{}, fmt.Errorf("quote %s: no usable price: %w", symbol, market.ErrQuoteUnavailable)
	}

	q := market.Quote{
		Symbol: market.NormalizeSymbol(aq.Symbol),
		Name:   aq.CompanyName,
		Price:  *aq.LatestPrice,
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	return q, nil
}
