// File: internal/infra/adapters/payment/coinpay_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"propfirm-web/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*CoinpayGateway)(nil)

// CoinpayGateway implements adapter.PaymentGateway against the hosted-charge
// REST surface of the crypto payment collaborator. The collaborator renders
// its own payment-method UI at the hosted URL; we never touch card or wallet
// details ourselves.
type CoinpayGateway struct {
	apiKey  string
	baseURL string
	sandbox bool
	client  *http.Client
}

func NewCoinpayGateway(apiKey, baseURL string, sandbox bool) (*CoinpayGateway, error) {
	if apiKey == "" {
		return nil, errors.New("api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.coinpay.example/v1"
		if sandbox {
			baseURL = "https://sandbox.coinpay.example/v1"
		}
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &CoinpayGateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		sandbox: sandbox,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *CoinpayGateway) Name() string { return "coinpay" }

func (g *CoinpayGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (string, string, error) {
	payload := map[string]any{
		"amount":       fmt.Sprintf("%d.%02d", req.AmountCents/100, req.AmountCents%100),
		"currency":     req.Currency,
		"description":  req.Description,
		"redirect_url": req.SuccessURL,
	}
	if len(req.Meta) > 0 {
		payload["metadata"] = req.Meta
	}
	b, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(b))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("create charge http %d", resp.StatusCode)
	}
	var out struct {
		Data struct {
			ID        string `json:"id"`
			HostedURL string `json:"hosted_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	if out.Data.ID == "" || out.Data.HostedURL == "" {
		return "", "", errors.New("coinpay charge response incomplete")
	}
	return out.Data.ID, out.Data.HostedURL, nil
}

func (g *CoinpayGateway) ChargeStatus(ctx context.Context, chargeID string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/charges/"+url.PathEscape(chargeID), nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("X-Api-Key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", errors.New("coinpay: charge not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("charge status http %d", resp.StatusCode)
	}
	var out struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Data.Status == "" {
		return "", errors.New("coinpay status response incomplete")
	}
	return out.Data.Status, nil
}
