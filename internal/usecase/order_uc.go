// File: internal/usecase/order_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
)

var _ OrderUseCase = (*orderUC)(nil)

// OrderUseCase exposes the read side of orders for the admin console.
type OrderUseCase interface {
	Recent(ctx context.Context, limit int) ([]*model.Order, error)
	ByCampaign(ctx context.Context, tag string) ([]*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
}

type orderUC struct {
	orders repository.OrderRepository
	log    *zerolog.Logger
}

func NewOrderUseCase(orders repository.OrderRepository, logger *zerolog.Logger) *orderUC {
	ucLog := logger.With().Str("component", "OrderUC").Logger()
	return &orderUC{orders: orders, log: &ucLog}
}

func (u *orderUC) Recent(ctx context.Context, limit int) ([]*model.Order, error) {
	return u.orders.ListRecent(ctx, repository.NoTX, limit)
}

func (u *orderUC) ByCampaign(ctx context.Context, tag string) ([]*model.Order, error) {
	return u.orders.ListByCampaignTag(ctx, repository.NoTX, tag)
}

func (u *orderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.FindByID(ctx, repository.NoTX, id)
}
