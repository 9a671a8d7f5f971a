// File: internal/infra/db/postgres/postgres_comment_repo.go
package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
)

var _ repository.CommentRepository = (*commentRepo)(nil)

type commentRepo struct{ pool *pgxpool.Pool }

func NewCommentRepo(pool *pgxpool.Pool) *commentRepo {
	return &commentRepo{pool: pool}
}

func (r *commentRepo) Save(ctx context.Context, tx repository.Tx, c *model.Comment) error {
	const q = `
INSERT INTO comments (id, poll_id, author_name, body, created_at)
VALUES ($1,$2,$3,$4,$5);
`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.PollID, c.AuthorName, c.Text, c.CreatedAt)
	return err
}

func (r *commentRepo) ListByPoll(ctx context.Context, tx repository.Tx, pollID string) ([]*model.Comment, error) {
	const q = `
SELECT id, poll_id, author_name, body, created_at
  FROM comments WHERE poll_id=$1 ORDER BY created_at ASC;
`
	rows, err := querySQL(ctx, r.pool, tx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PollID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
