// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
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

// fakeTxManager runs the callback directly; unit tests have no database.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// ---------------- users ----------------

type memUserRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.User
	saveErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) SetUsername(ctx context.Context, tx repository.Tx, id, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Username != "" {
		return domain.ErrUsernameSet
	}
	for _, other := range m.store {
		if strings.EqualFold(other.Username, username) && other.Username != "" {
			return domain.ErrAlreadyExists
		}
	}
	now := time.Now()
	u.Username = username
	u.UsernameSetAt = &now
	return nil
}

func (m *memUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// ---------------- polls ----------------

type memPollRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Poll
}

func newMemPollRepo() *memPollRepo {
	return &memPollRepo{store: make(map[string]*model.Poll)}
}

func clonePoll(p *model.Poll) *model.Poll {
	cp := *p
	cp.Votes = make(map[string]model.VoteChoice, len(p.Votes))
	for k, v := range p.Votes {
		cp.Votes[k] = v
	}
	return &cp
}

func (m *memPollRepo) Save(ctx context.Context, tx repository.Tx, p *model.Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[p.ID] = clonePoll(p)
	return nil
}

func (m *memPollRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Poll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePoll(p), nil
}

func (m *memPollRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Poll, error) {
	return m.FindByID(ctx, tx, id)
}

func (m *memPollRepo) UpdateVotes(ctx context.Context, tx repository.Tx, p *model.Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.store[p.ID] = clonePoll(p)
	return nil
}

func (m *memPollRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Poll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Poll
	for _, p := range m.store {
		out = append(out, clonePoll(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memCommentRepo struct {
	mu    sync.RWMutex
	store []*model.Comment
}

func newMemCommentRepo() *memCommentRepo { return &memCommentRepo{} }

func (m *memCommentRepo) Save(ctx context.Context, tx repository.Tx, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store = append(m.store, &cp)
	return nil
}

func (m *memCommentRepo) ListByPoll(ctx context.Context, tx repository.Tx, pollID string) ([]*model.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Comment
	for _, c := range m.store {
		if c.PollID == pollID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---------------- orders ----------------

type memOrderRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Order
	listErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]*model.Order)}
}

func (m *memOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindByProviderRef(ctx context.Context, tx repository.Tx, ref string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.store {
		if o.ProviderRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrderRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	if status == model.OrderStatusPaid {
		now := time.Now()
		o.PaidAt = &now
	}
	return nil
}

func (m *memOrderRepo) ListByCampaignTag(ctx context.Context, tx repository.Tx, tag string) ([]*model.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if o.CampaignTag == tag {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrderRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ---------------- session / funnel state ----------------

type memSessionStore struct {
	mu    sync.RWMutex
	store map[string]string // "<sid>|<key>" -> value
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{store: make(map[string]string)}
}

func (m *memSessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[sessionID+"|"+key] = value
	return nil
}

func (m *memSessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store[sessionID+"|"+key], nil
}

func (m *memSessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.store, sessionID+"|"+k)
	}
	return nil
}

type memFunnelStateRepo struct {
	mu    sync.RWMutex
	store map[string]*model.FunnelState
}

func newMemFunnelStateRepo() *memFunnelStateRepo {
	return &memFunnelStateRepo{store: make(map[string]*model.FunnelState)}
}

func (m *memFunnelStateRepo) SetState(ctx context.Context, sessionID string, state *model.FunnelState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.store[sessionID] = &cp
	return nil
}

func (m *memFunnelStateRepo) GetState(ctx context.Context, sessionID string) (*model.FunnelState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memFunnelStateRepo) ClearState(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, sessionID)
	return nil
}

// ---------------- collaborators ----------------

type fakeGateway struct {
	mu        sync.Mutex
	seq       int
	createErr error
	charges   map[string]int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{charges: make(map[string]int64)}
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (string, string, error) {
	if g.createErr != nil {
		return "", "", g.createErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("ch-%d", g.seq)
	g.charges[id] = req.AmountCents
	return id, "https://pay.example.test/" + id, nil
}

func (g *fakeGateway) ChargeStatus(ctx context.Context, chargeID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.charges[chargeID]; !ok {
		return "", domain.ErrNotFound
	}
	return "pending", nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []adapter.SendEmailParams
	failFor map[string]bool // recipient email -> fail
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]bool)}
}

func (s *fakeSender) Send(ctx context.Context, params adapter.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[params.To] {
		return fmt.Errorf("delivery refused for %s", params.To)
	}
	s.sent = append(s.sent, params)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
