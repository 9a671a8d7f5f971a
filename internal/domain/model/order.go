package model

import "time"

// OrderKind tags which surface collected the buyer's intent.
type OrderKind string

const (
	OrderFunnelLead     OrderKind = "funnel-lead"
	OrderPromoSelection OrderKind = "promo-selection"
	OrderActivationForm OrderKind = "activation-form"
	OrderResetForm      OrderKind = "reset-form"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // charge created, awaiting settlement
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// ContactForm is the buyer contact block shared by every order surface.
type ContactForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Country   string `json:"country,omitempty"`
}

// Order is the normalized challenge order handed to the payment collaborator
// and persisted for the admin console. IDs are ULIDs so recency ordering
// falls out of the id itself.
type Order struct {
	ID          string        `json:"id"`
	Kind        OrderKind     `json:"kind"`
	Challenge   ChallengeKind `json:"challenge"`
	AccountSize string        `json:"account_size"`
	Platform    string        `json:"platform"` // MT4 | MT5
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	PromoCode   string        `json:"promo_code,omitempty"`
	CampaignTag string        `json:"campaign_tag,omitempty"`
	Form        ContactForm   `json:"form"`

	Status      OrderStatus `json:"status"`
	Provider    string      `json:"provider"`
	ProviderRef string      `json:"provider_ref"` // gateway charge id
	RedirectTo  string      `json:"redirect_to"`  // success path handed to the gateway

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}
