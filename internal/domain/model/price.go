package model

import "time"

// PriceAssets is the fixed set of quoted crypto assets.
var PriceAssets = []string{"BTC", "ETH", "USDT", "USDC"}

// PriceSnapshot is the latest spot quote set from the price-feed collaborator.
// Snapshots are display-only inputs; settlement amounts are the payment
// provider's concern.
type PriceSnapshot struct {
	Spot      map[string]float64 `json:"spot"` // asset -> USD
	FetchedAt time.Time          `json:"fetched_at"`
}
