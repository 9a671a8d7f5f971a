// File: internal/infra/sched/price_poller.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/adapter"
	"propfirm-web/internal/infra/metrics"
	"propfirm-web/internal/infra/redis"
)

// PricePoller refreshes the crypto spot snapshot on a fixed interval. A
// failed fetch leaves the previous snapshot in place; the site keeps showing
// slightly stale prices rather than none.
type PricePoller struct {
	interval time.Duration
	feed     adapter.PriceFeed
	cache    *redis.PriceCache
	log      *zerolog.Logger
}

func NewPricePoller(interval time.Duration, feed adapter.PriceFeed, cache *redis.PriceCache, logger *zerolog.Logger) *PricePoller {
	pollLog := logger.With().Str("component", "PricePoller").Logger()
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &PricePoller{interval: interval, feed: feed, cache: cache, log: &pollLog}
}

func (w *PricePoller) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting price poller")

	// First fetch immediately so the site never boots without prices.
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping price poller")
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *PricePoller) refresh(ctx context.Context) {
	spot, err := w.feed.Spot(ctx, model.PriceAssets)
	if err != nil {
		metrics.IncPriceFeedFetch("error")
		w.log.Error().Err(err).Msg("price fetch failed; keeping previous snapshot")
		return
	}
	snap := &model.PriceSnapshot{Spot: spot, FetchedAt: time.Now()}
	if err := w.cache.Store(ctx, snap); err != nil {
		metrics.IncPriceFeedFetch("error")
		w.log.Error().Err(err).Msg("price snapshot store failed")
		return
	}
	metrics.IncPriceFeedFetch("ok")
	w.log.Debug().Int("assets", len(spot)).Msg("price snapshot refreshed")
}
