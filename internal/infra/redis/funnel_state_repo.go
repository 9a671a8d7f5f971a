// File: internal/infra/redis/funnel_state_repo.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.FunnelStateRepository = (*FunnelStateRepo)(nil)

// FunnelStateRepo keeps each visitor's quiz progress in Redis so the flow
// survives page reloads but not a long absence.
type FunnelStateRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewFunnelStateRepo(client *redClient, ttl time.Duration) repository.FunnelStateRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &FunnelStateRepo{client: client, ttl: ttl}
}

func (s *FunnelStateRepo) stateKey(sessionID string) string {
	return "funnel_state:" + sessionID
}

func (s *FunnelStateRepo) SetState(ctx context.Context, sessionID string, state *model.FunnelState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(sessionID), data, s.ttl)
}

func (s *FunnelStateRepo) GetState(ctx context.Context, sessionID string) (*model.FunnelState, error) {
	data, err := s.client.Get(ctx, s.stateKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var state model.FunnelState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *FunnelStateRepo) ClearState(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.stateKey(sessionID))
}
