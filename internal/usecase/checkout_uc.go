package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/adapter"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/logging"
	"propfirm-web/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// DefaultSuccessPath is where the provider returns the buyer when a payload
// does not name its own redirect.
const DefaultSuccessPath = "/payment-pending"

// CheckoutPayload is the tagged union over the surfaces that collect buyer
// intent. One adapter (buildOrder) normalizes each arm into the payment
// collaborator's charge request; nothing passes through untyped.
type CheckoutPayload interface {
	orderKind() model.OrderKind
}

// FunnelLeadPayload hands off a completed quiz. The recommended size chosen
// during the funnel selects the account; an absent recommendation blocks
// checkout.
type FunnelLeadPayload struct {
	State    *model.FunnelState
	Platform string
}

func (FunnelLeadPayload) orderKind() model.OrderKind { return model.OrderFunnelLead }

// PromoSelectionPayload is a pricing-table or campaign-page selection.
type PromoSelectionPayload struct {
	Challenge   model.ChallengeKind
	AccountSize string
	Platform    string
	PromoCode   string
	Form        model.ContactForm
	SuccessPath string
}

func (PromoSelectionPayload) orderKind() model.OrderKind { return model.OrderPromoSelection }

// ActivationFormPayload is a campaign activation (NYE, Gauntlet) priced from
// the authored promo table and tagged for later bulk mailing.
type ActivationFormPayload struct {
	Challenge   model.ChallengeKind
	AccountSize string
	Platform    string
	CampaignTag string
	Form        model.ContactForm
	SuccessPath string
}

func (ActivationFormPayload) orderKind() model.OrderKind { return model.OrderActivationForm }

// ResetFormPayload restarts a blown challenge. The reset quote is authored by
// the page that collected it; checkout-side validation is the payment
// collaborator's responsibility.
type ResetFormPayload struct {
	Challenge   model.ChallengeKind
	AccountSize string
	Platform    string
	AmountCents int64
	Form        model.ContactForm
	SuccessPath string
}

func (ResetFormPayload) orderKind() model.OrderKind { return model.OrderResetForm }

type CheckoutUseCase interface {
	// Checkout normalizes the payload, registers a charge with the provider,
	// persists the pending order, and returns the hosted payment URL.
	Checkout(ctx context.Context, payload CheckoutPayload) (*model.Order, string, error)
	// ConfirmWebhook settles an order from a provider callback. Idempotent:
	// a repeat delivery for a settled order is a no-op.
	ConfirmWebhook(ctx context.Context, chargeID, status string) (*model.Order, error)
}

type checkoutUC struct {
	orders  repository.OrderRepository
	gateway adapter.PaymentGateway
	log     *zerolog.Logger
}

func NewCheckoutUseCase(orders repository.OrderRepository, gateway adapter.PaymentGateway, logger *zerolog.Logger) *checkoutUC {
	return &checkoutUC{orders: orders, gateway: gateway, log: logger}
}

func (u *checkoutUC) Checkout(ctx context.Context, payload CheckoutPayload) (*model.Order, string, error) {
	defer logging.TraceDuration(u.log, "CheckoutUC.Checkout")()

	order, err := buildOrder(payload)
	if err != nil {
		return nil, "", err
	}
	order.Provider = u.gateway.Name()

	chargeID, hostedURL, err := u.gateway.CreateCharge(ctx, adapter.ChargeRequest{
		AmountCents: order.AmountCents,
		Currency:    order.Currency,
		Description: fmt.Sprintf("%s %s challenge (%s)", order.AccountSize, order.Challenge, order.Kind),
		SuccessURL:  order.RedirectTo,
		Meta: map[string]string{
			"order_id": order.ID,
			"email":    order.Form.Email,
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create charge: %w", err)
	}
	order.ProviderRef = chargeID

	if err := u.orders.Save(ctx, repository.NoTX, order); err != nil {
		return nil, "", fmt.Errorf("save order: %w", err)
	}
	metrics.IncCheckout(string(order.Kind))
	u.log.Info().
		Str("order_id", order.ID).
		Str("kind", string(order.Kind)).
		Str("charge_id", chargeID).
		Int64("amount_cents", order.AmountCents).
		Msg("checkout initiated")
	return order, hostedURL, nil
}

// buildOrder is the single normalization point for the payload union.
func buildOrder(payload CheckoutPayload) (*model.Order, error) {
	now := time.Now()
	order := &model.Order{
		ID:        ulid.Make().String(),
		Kind:      payload.orderKind(),
		Currency:  "USD",
		Status:    model.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch p := payload.(type) {
	case FunnelLeadPayload:
		if p.State == nil || !p.State.Done() {
			return nil, domain.ErrInvalidArgument
		}
		if p.State.RecommendedSize == "" {
			return nil, domain.ErrNoRecommendation
		}
		plan := model.PlanByKind(model.ChallengeStandard)
		if !plan.Supports(p.State.RecommendedSize) {
			return nil, domain.ErrSizeNotOffered
		}
		order.Challenge = plan.Kind
		order.AccountSize = p.State.RecommendedSize
		order.AmountCents = plan.PromoCents[p.State.RecommendedSize]
		order.Platform = defaultPlatform(p.Platform)
		order.RedirectTo = DefaultSuccessPath
		order.Form = model.ContactForm{
			FirstName: p.State.FirstName,
			LastName:  p.State.LastName,
			Email:     p.State.Email,
		}

	case PromoSelectionPayload:
		plan := model.PlanByKind(p.Challenge)
		if plan == nil {
			return nil, domain.ErrNotFound
		}
		if !plan.Supports(p.AccountSize) {
			return nil, domain.ErrSizeNotOffered
		}
		order.Challenge = p.Challenge
		order.AccountSize = p.AccountSize
		order.AmountCents = plan.PromoCents[p.AccountSize]
		order.Platform = defaultPlatform(p.Platform)
		order.PromoCode = p.PromoCode
		order.RedirectTo = successPath(p.SuccessPath)
		order.Form = p.Form

	case ActivationFormPayload:
		plan := model.PlanByKind(p.Challenge)
		if plan == nil {
			return nil, domain.ErrNotFound
		}
		if !plan.Supports(p.AccountSize) {
			return nil, domain.ErrSizeNotOffered
		}
		order.Challenge = p.Challenge
		order.AccountSize = p.AccountSize
		order.AmountCents = plan.PromoCents[p.AccountSize]
		order.Platform = defaultPlatform(p.Platform)
		order.CampaignTag = p.CampaignTag
		order.RedirectTo = successPath(p.SuccessPath)
		order.Form = p.Form

	case ResetFormPayload:
		if p.AmountCents <= 0 {
			return nil, domain.ErrInvalidArgument
		}
		order.Challenge = p.Challenge
		order.AccountSize = p.AccountSize
		order.AmountCents = p.AmountCents
		order.Platform = defaultPlatform(p.Platform)
		order.RedirectTo = successPath(p.SuccessPath)
		order.Form = p.Form

	default:
		return nil, domain.ErrInvalidArgument
	}

	if order.Form.Email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return order, nil
}

func defaultPlatform(p string) string {
	if p == "" {
		return "MT5"
	}
	return p
}

func successPath(p string) string {
	if p == "" {
		return DefaultSuccessPath
	}
	return p
}

func (u *checkoutUC) ConfirmWebhook(ctx context.Context, chargeID, status string) (*model.Order, error) {
	order, err := u.orders.FindByProviderRef(ctx, repository.NoTX, chargeID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		// Settled already; repeat deliveries change nothing.
		return order, nil
	}

	var next model.OrderStatus
	switch strings.ToLower(status) {
	case "paid", "confirmed", "completed":
		next = model.OrderStatusPaid
	case "failed", "expired", "cancelled":
		next = model.OrderStatusFailed
	default:
		// Intermediate provider states (detected, confirming) are ignored.
		return order, nil
	}

	if err := u.orders.UpdateStatus(ctx, repository.NoTX, order.ID, next); err != nil {
		return nil, err
	}
	order.Status = next
	order.UpdatedAt = time.Now()
	if next == model.OrderStatusPaid {
		now := order.UpdatedAt
		order.PaidAt = &now
		metrics.AddOrderRevenue(order.Currency, order.AmountCents)
	}
	metrics.IncOrderSettled(string(next))
	u.log.Info().
		Str("order_id", order.ID).
		Str("charge_id", chargeID).
		Str("status", string(next)).
		Msg("order settled")
	return order, nil
}
