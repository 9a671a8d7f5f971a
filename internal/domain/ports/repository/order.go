package repository

import (
	"context"

	"propfirm-web/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	FindByProviderRef(ctx context.Context, tx Tx, ref string) (*model.Order, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.OrderStatus) error
	// ListByCampaignTag feeds bulk-send recipient sourcing, most recent first.
	ListByCampaignTag(ctx context.Context, tx Tx, tag string) ([]*model.Order, error)
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.Order, error)
}
