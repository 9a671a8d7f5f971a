// File: internal/infra/db/postgres/postgres_order_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

// orderRepo persists challenge orders. The contact form travels as jsonb so
// surface-specific fields never force a migration.
type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, kind, challenge, account_size, platform, amount_cents, currency,
       promo_code, campaign_tag, form, status, provider, provider_ref, redirect_to,
       created_at, updated_at, paid_at`

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	form, err := json.Marshal(o.Form)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO orders (
  id, kind, challenge, account_size, platform, amount_cents, currency,
  promo_code, campaign_tag, form, status, provider, provider_ref, redirect_to,
  created_at, updated_at, paid_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17
) ON CONFLICT (id) DO UPDATE SET
  status=$11, provider_ref=$13, updated_at=$16, paid_at=$17;
`
	_, err = execSQL(ctx, r.pool, tx, q,
		o.ID, o.Kind, o.Challenge, o.AccountSize, o.Platform, o.AmountCents, o.Currency,
		o.PromoCode, o.CampaignTag, form, o.Status, o.Provider, o.ProviderRef, o.RedirectTo,
		o.CreatedAt, o.UpdatedAt, o.PaidAt)
	return err
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+orderColumns+` FROM orders WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) FindByProviderRef(ctx context.Context, tx repository.Tx, ref string) (*model.Order, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+orderColumns+` FROM orders WHERE provider_ref=$1 LIMIT 1;`, ref)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus) error {
	var paidAt *time.Time
	if status == model.OrderStatusPaid {
		now := time.Now()
		paidAt = &now
	}
	const q = `UPDATE orders SET status=$2, paid_at=COALESCE($3, paid_at), updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) ListByCampaignTag(ctx context.Context, tx repository.Tx, tag string) ([]*model.Order, error) {
	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+orderColumns+` FROM orders WHERE campaign_tag=$1 ORDER BY created_at DESC;`, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*model.Order, error) {
	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o    model.Order
		form []byte
	)
	if err := row.Scan(
		&o.ID, &o.Kind, &o.Challenge, &o.AccountSize, &o.Platform, &o.AmountCents, &o.Currency,
		&o.PromoCode, &o.CampaignTag, &form, &o.Status, &o.Provider, &o.ProviderRef, &o.RedirectTo,
		&o.CreatedAt, &o.UpdatedAt, &o.PaidAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(form, &o.Form); err != nil {
		return nil, err
	}
	return &o, nil
}
