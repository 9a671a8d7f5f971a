// File: internal/infra/adapters/payment/noop_payment.go
package payment

import (
	"context"
	"fmt"
	"sync"

	"propfirm-web/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is an in-memory gateway for dev mode and tests. Every
// charge settles immediately when asked.
type NoopPaymentGateway struct {
	mu      sync.Mutex
	seq     int64
	charges map[string]int64 // charge id -> amount cents
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{charges: make(map[string]int64)}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next()
	g.charges[id] = req.AmountCents
	return id, "https://example.test/pay/" + id, nil
}

func (g *NoopPaymentGateway) ChargeStatus(ctx context.Context, chargeID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.charges[chargeID]; !ok {
		return "", fmt.Errorf("noop: charge not found")
	}
	return "paid", nil
}
