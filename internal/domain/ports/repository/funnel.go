package repository

import (
	"context"

	"propfirm-web/internal/domain/model"
)

// FunnelStateRepository holds a visitor's live quiz state between requests.
// State is ephemeral: it expires on its own when a visitor walks away.
type FunnelStateRepository interface {
	SetState(ctx context.Context, sessionID string, state *model.FunnelState) error
	GetState(ctx context.Context, sessionID string) (*model.FunnelState, error)
	ClearState(ctx context.Context, sessionID string) error
}
