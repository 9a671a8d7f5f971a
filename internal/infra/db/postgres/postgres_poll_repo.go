// File: internal/infra/db/postgres/postgres_poll_repo.go
package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
)

var _ repository.PollRepository = (*pollRepo)(nil)

// pollRepo stores the per-user vote map as jsonb next to the denormalized
// tallies; UpdateVotes always writes both in the same statement.
type pollRepo struct{ pool *pgxpool.Pool }

func NewPollRepo(pool *pgxpool.Pool) *pollRepo {
	return &pollRepo{pool: pool}
}

func (r *pollRepo) Save(ctx context.Context, tx repository.Tx, p *model.Poll) error {
	votes, err := json.Marshal(p.Votes)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO polls (
  id, title, description, creator_name, yes_votes, no_votes, votes, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
) ON CONFLICT (id) DO UPDATE SET
  title=$2, description=$3, yes_votes=$5, no_votes=$6, votes=$7;
`
	_, err = execSQL(ctx, r.pool, tx, q, p.ID, p.Title, p.Description, p.CreatorName, p.YesVotes, p.NoVotes, votes, p.CreatedAt)
	return err
}

func (r *pollRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Poll, error) {
	return r.find(ctx, tx, id, false)
}

func (r *pollRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Poll, error) {
	return r.find(ctx, tx, id, true)
}

func (r *pollRepo) find(ctx context.Context, tx repository.Tx, id string, forUpdate bool) (*model.Poll, error) {
	q := `SELECT id, title, description, creator_name, yes_votes, no_votes, votes, created_at FROM polls WHERE id=$1`
	if forUpdate {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPoll(row)
}

func (r *pollRepo) UpdateVotes(ctx context.Context, tx repository.Tx, p *model.Poll) error {
	votes, err := json.Marshal(p.Votes)
	if err != nil {
		return err
	}
	const q = `UPDATE polls SET yes_votes=$2, no_votes=$3, votes=$4 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, p.ID, p.YesVotes, p.NoVotes, votes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pollRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Poll, error) {
	const q = `
SELECT id, title, description, creator_name, yes_votes, no_votes, votes, created_at
  FROM polls ORDER BY created_at DESC;
`
	rows, err := querySQL(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPoll(row pgx.Row) (*model.Poll, error) {
	var (
		p     model.Poll
		votes []byte
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CreatorName, &p.YesVotes, &p.NoVotes, &votes, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(votes, &p.Votes); err != nil {
		return nil, err
	}
	if p.Votes == nil {
		p.Votes = make(map[string]model.VoteChoice)
	}
	return &p, nil
}
