// File: internal/infra/api/mock_test.go
package api_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/adapter"
	"propfirm-web/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type stubTxManager struct{}

func (stubTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type stubSessionStore struct {
	mu    sync.Mutex
	store map[string]string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{store: make(map[string]string)}
}

func (s *stubSessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[sessionID+"|"+key] = value
	return nil
}

func (s *stubSessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store[sessionID+"|"+key], nil
}

func (s *stubSessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.store, sessionID+"|"+k)
	}
	return nil
}

type stubFunnelStates struct {
	mu    sync.Mutex
	store map[string]*model.FunnelState
}

func newStubFunnelStates() *stubFunnelStates {
	return &stubFunnelStates{store: make(map[string]*model.FunnelState)}
}

func (s *stubFunnelStates) SetState(ctx context.Context, sessionID string, state *model.FunnelState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.store[sessionID] = &cp
	return nil
}

func (s *stubFunnelStates) GetState(ctx context.Context, sessionID string) (*model.FunnelState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.store[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *stubFunnelStates) ClearState(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, sessionID)
	return nil
}

type stubUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{store: make(map[string]*model.User)}
}

func (s *stubUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.store[u.ID] = &cp
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) SetUsername(ctx context.Context, tx repository.Tx, id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Username != "" {
		return domain.ErrUsernameSet
	}
	u.Username = username
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	return nil, nil
}

func (s *stubUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.store), nil
}

type stubPollRepo struct {
	mu    sync.Mutex
	store map[string]*model.Poll
}

func newStubPollRepo() *stubPollRepo {
	return &stubPollRepo{store: make(map[string]*model.Poll)}
}

func (s *stubPollRepo) Save(ctx context.Context, tx repository.Tx, p *model.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[p.ID] = p
	return nil
}

func (s *stubPollRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubPollRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Poll, error) {
	return s.FindByID(ctx, tx, id)
}

func (s *stubPollRepo) UpdateVotes(ctx context.Context, tx repository.Tx, p *model.Poll) error {
	return s.Save(ctx, tx, p)
}

func (s *stubPollRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Poll, 0, len(s.store))
	for _, p := range s.store {
		out = append(out, p)
	}
	return out, nil
}

type stubCommentRepo struct {
	mu    sync.Mutex
	store []*model.Comment
}

func (s *stubCommentRepo) Save(ctx context.Context, tx repository.Tx, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = append(s.store, c)
	return nil
}

func (s *stubCommentRepo) ListByPoll(ctx context.Context, tx repository.Tx, pollID string) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Comment
	for _, c := range s.store {
		if c.PollID == pollID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubOrderRepo struct {
	mu    sync.Mutex
	store map[string]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{store: make(map[string]*model.Order)}
}

func (s *stubOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.store[o.ID] = &cp
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) FindByProviderRef(ctx context.Context, tx repository.Tx, ref string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.store {
		if o.ProviderRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	if status == model.OrderStatusPaid {
		now := time.Now()
		o.PaidAt = &now
	}
	return nil
}

func (s *stubOrderRepo) ListByCampaignTag(ctx context.Context, tx repository.Tx, tag string) ([]*model.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Order, error) {
	return nil, nil
}

type stubGateway struct {
	mu  sync.Mutex
	seq int
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("charge-%d", g.seq)
	return id, "https://pay.example.test/" + id, nil
}

func (g *stubGateway) ChargeStatus(ctx context.Context, chargeID string) (string, error) {
	return "pending", nil
}

// stubPriceSource serves a fixed snapshot, or ErrNotFound before the first
// poll lands.
type stubPriceSource struct {
	snap *model.PriceSnapshot
}

func (s *stubPriceSource) Latest(ctx context.Context) (*model.PriceSnapshot, error) {
	if s.snap == nil {
		return nil, domain.ErrNotFound
	}
	return s.snap, nil
}
