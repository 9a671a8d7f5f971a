package usecase

import (
	"context"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ PricingUseCase = (*pricingUC)(nil)

// CheckoutRoute is where a persisted selection sends the visitor next.
const CheckoutRoute = "/checkout"

// PricingResolution carries both prices for one (plan, size) cell. The
// half-off number is the pricing table's computed discount; PromoCents is the
// campaign page's authored price. They are separate mechanisms and callers
// must pick one source of truth per campaign.
type PricingResolution struct {
	OriginalCents int64 `json:"original_cents"`
	PromoCents    int64 `json:"promo_cents"`
	HalfOffCents  int64 `json:"half_off_cents"`
}

type PricingUseCase interface {
	// Plans returns the full catalog in display order.
	Plans() []*model.ChallengePlan
	// Resolve looks up prices for one cell; ErrSizeNotOffered for a size
	// outside the plan's list (callers render a dash, never crash).
	Resolve(kind model.ChallengeKind, size string) (PricingResolution, error)
	// IsBestValue reports whether the size at index carries the badge.
	IsBestValue(kind model.ChallengeKind, index int) bool
	// SelectForCheckout persists the visitor's selection into the session
	// channel under the fixed key names and returns the checkout route.
	SelectForCheckout(ctx context.Context, sessionID string, kind model.ChallengeKind, size, promoCode string) (string, error)
}

type pricingUC struct {
	sessions repository.SessionStore
	log      *zerolog.Logger
}

func NewPricingUseCase(sessions repository.SessionStore, logger *zerolog.Logger) *pricingUC {
	return &pricingUC{sessions: sessions, log: logger}
}

func (u *pricingUC) Plans() []*model.ChallengePlan { return model.Catalog() }

func (u *pricingUC) Resolve(kind model.ChallengeKind, size string) (PricingResolution, error) {
	plan := model.PlanByKind(kind)
	if plan == nil {
		return PricingResolution{}, domain.ErrNotFound
	}
	if !plan.Supports(size) {
		return PricingResolution{}, domain.ErrSizeNotOffered
	}
	original := plan.PriceCents[size]
	return PricingResolution{
		OriginalCents: original,
		PromoCents:    plan.PromoCents[size],
		HalfOffCents:  model.HalfOffCents(original),
	}, nil
}

func (u *pricingUC) IsBestValue(kind model.ChallengeKind, index int) bool {
	plan := model.PlanByKind(kind)
	return plan != nil && index == plan.BestValueIndex
}

func (u *pricingUC) SelectForCheckout(ctx context.Context, sessionID string, kind model.ChallengeKind, size, promoCode string) (string, error) {
	defer logging.TraceDuration(u.log, "PricingUC.SelectForCheckout")()

	plan := model.PlanByKind(kind)
	if plan == nil {
		return "", domain.ErrNotFound
	}
	if !plan.Supports(size) {
		return "", domain.ErrSizeNotOffered
	}

	if err := u.sessions.Set(ctx, sessionID, repository.SessionKeyChallengeType, string(kind)); err != nil {
		return "", err
	}
	if err := u.sessions.Set(ctx, sessionID, repository.SessionKeyChallengeAmount, size); err != nil {
		return "", err
	}
	if promoCode != "" {
		if err := u.sessions.Set(ctx, sessionID, repository.SessionKeyPromoCode, promoCode); err != nil {
			return "", err
		}
	}
	return CheckoutRoute, nil
}
