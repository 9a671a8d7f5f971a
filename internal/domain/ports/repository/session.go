package repository

import "context"

// Fixed session keys. These names are the cross-page contract: any page may
// read keys it did not write, so they must never be renamed independently.
const (
	SessionKeyChallengeType   = "challengeType"
	SessionKeyChallengeAmount = "challengeAmount"
	SessionKeyPromoCode       = "promoCode"
	SessionKeyResetResult     = "resetResult"
)

// SessionStore is the narrow cross-page key-value channel scoped to one
// visitor session. Values expire with the session.
type SessionStore interface {
	Set(ctx context.Context, sessionID, key, value string) error
	// Get returns "" (no error) for a key the session never wrote.
	Get(ctx context.Context, sessionID, key string) (string, error)
	Delete(ctx context.Context, sessionID string, keys ...string) error
}
