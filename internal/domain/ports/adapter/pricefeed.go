package adapter

import "context"

// PriceFeed returns current USD spot prices for the fixed asset set.
type PriceFeed interface {
	Spot(ctx context.Context, assets []string) (map[string]float64, error)
}
