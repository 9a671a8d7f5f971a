// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// mockTemplateUC stubs the email console use case with function fields so
// each test overrides only what it exercises.
type mockTemplateUC struct {
	listFn      func() []*model.EmailTemplate
	getFn       func(id int) (*model.EmailTemplate, error)
	createFn    func(name, subject, body string, variables []string, bulk bool) *model.EmailTemplate
	updateFn    func(id int, name, subject, body string, variables []string, bulk bool) (*model.EmailTemplate, error)
	previewFn   func(id int, vars map[string]string) (string, string, error)
	sendFn      func(ctx context.Context, id int, to string, vars map[string]string) error
	startBulkFn func(id int, recipients []usecase.Recipient) error
	progressFn  func() usecase.BulkProgress
	campaignFn  func(ctx context.Context, tag string) ([]usecase.Recipient, error)
}

var _ usecase.TemplateUseCase = (*mockTemplateUC)(nil)

func (m *mockTemplateUC) List() []*model.EmailTemplate {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil
}

func (m *mockTemplateUC) Get(id int) (*model.EmailTemplate, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTemplateUC) Create(name, subject, body string, variables []string, bulk bool) *model.EmailTemplate {
	if m.createFn != nil {
		return m.createFn(name, subject, body, variables, bulk)
	}
	return &model.EmailTemplate{ID: 1, Name: name, Subject: subject, Body: body, Variables: variables, Bulk: bulk}
}

func (m *mockTemplateUC) Update(id int, name, subject, body string, variables []string, bulk bool) (*model.EmailTemplate, error) {
	if m.updateFn != nil {
		return m.updateFn(id, name, subject, body, variables, bulk)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTemplateUC) RenderPreview(id int, vars map[string]string) (string, string, error) {
	if m.previewFn != nil {
		return m.previewFn(id, vars)
	}
	return "", "", domain.ErrNotFound
}

func (m *mockTemplateUC) SendSingle(ctx context.Context, id int, to string, vars map[string]string) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, id, to, vars)
	}
	return domain.ErrNotFound
}

func (m *mockTemplateUC) StartBulk(id int, recipients []usecase.Recipient) error {
	if m.startBulkFn != nil {
		return m.startBulkFn(id, recipients)
	}
	return nil
}

func (m *mockTemplateUC) Progress() usecase.BulkProgress {
	if m.progressFn != nil {
		return m.progressFn()
	}
	return usecase.BulkProgress{}
}

func (m *mockTemplateUC) CampaignRecipients(ctx context.Context, tag string) ([]usecase.Recipient, error) {
	if m.campaignFn != nil {
		return m.campaignFn(ctx, tag)
	}
	return nil, nil
}

type mockUserUC struct {
	listFn  func(ctx context.Context, offset, limit int) ([]*model.User, error)
	countFn func(ctx context.Context) (int, error)
}

var _ usecase.UserUseCase = (*mockUserUC)(nil)

func (m *mockUserUC) RegisterOrFetch(ctx context.Context, uid, email string) (*model.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) FindByID(ctx context.Context, uid string) (*model.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) ClaimUsername(ctx context.Context, uid, username string) (*model.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockUserUC) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockOrderUC struct {
	recentFn     func(ctx context.Context, limit int) ([]*model.Order, error)
	byCampaignFn func(ctx context.Context, tag string) ([]*model.Order, error)
}

var _ usecase.OrderUseCase = (*mockOrderUC)(nil)

func (m *mockOrderUC) Recent(ctx context.Context, limit int) ([]*model.Order, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockOrderUC) ByCampaign(ctx context.Context, tag string) ([]*model.Order, error) {
	if m.byCampaignFn != nil {
		return m.byCampaignFn(ctx, tag)
	}
	return nil, nil
}

func (m *mockOrderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	return nil, domain.ErrNotFound
}

// mockLimiter answers every attempt with a fixed verdict.
type mockLimiter struct {
	allow bool
	keys  []string
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allow, nil
}
