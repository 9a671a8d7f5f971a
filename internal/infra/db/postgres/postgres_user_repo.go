// File: internal/infra/db/postgres/postgres_user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, email, username, username_set_at, created_at, last_seen_at
) VALUES (
  $1,$2,NULLIF($3,''),$4,$5,$6
) ON CONFLICT (id) DO UPDATE SET
  email=$2, last_seen_at=$6;
`
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Email, u.Username, u.UsernameSetAt, u.CreatedAt, u.LastSeenAt)
	return err
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `
SELECT id, email, COALESCE(username,''), username_set_at, created_at, last_seen_at
  FROM users WHERE id=$1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.UsernameSetAt, &u.CreatedAt, &u.LastSeenAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) SetUsername(ctx context.Context, tx repository.Tx, id, username string) error {
	// The WHERE guard doubles as the one-time rule; a unique index on
	// lower(username) enforces global uniqueness.
	const q = `
UPDATE users SET username=$2, username_set_at=NOW()
 WHERE id=$1 AND username IS NULL;
`
	tag, err := execSQL(ctx, r.pool, tx, q, id, username)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either no such user or the name was already claimed.
		u, ferr := r.FindByID(ctx, tx, id)
		if ferr != nil {
			return ferr
		}
		if u.HasUsername() {
			return domain.ErrUsernameSet
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	const q = `
SELECT id, email, COALESCE(username,''), username_set_at, created_at, last_seen_at
  FROM users ORDER BY created_at DESC OFFSET $1 LIMIT $2;
`
	rows, err := querySQL(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.UsernameSetAt, &u.CreatedAt, &u.LastSeenAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
