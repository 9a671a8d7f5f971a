// File: internal/infra/adapters/pricefeed/http_feed.go
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"propfirm-web/internal/domain/ports/adapter"
)

var _ adapter.PriceFeed = (*HTTPFeed)(nil)

// assetIDs maps display symbols to the feed's coin identifiers.
var assetIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"USDC": "usd-coin",
}

// HTTPFeed reads USD spot prices from a CoinGecko-compatible simple-price
// endpoint.
type HTTPFeed struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFeed(baseURL string) (*HTTPFeed, error) {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}
	return &HTTPFeed{baseURL: baseURL, client: &http.Client{Timeout: 10 * time.Second}}, nil
}

func (f *HTTPFeed) Spot(ctx context.Context, assets []string) (map[string]float64, error) {
	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		id, ok := assetIDs[strings.ToUpper(a)]
		if !ok {
			return nil, fmt.Errorf("unknown asset %q", a)
		}
		ids = append(ids, id)
	}

	u := f.baseURL + "/simple/price?vs_currencies=usd&ids=" + url.QueryEscape(strings.Join(ids, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("price feed http %d", resp.StatusCode)
	}

	var body map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(assets))
	for _, a := range assets {
		sym := strings.ToUpper(a)
		entry, ok := body[assetIDs[sym]]
		if !ok {
			return nil, errors.New("price feed response missing " + sym)
		}
		out[sym] = entry.USD
	}
	return out, nil
}
