package repository

import (
	"context"

	"propfirm-web/internal/domain/model"
)

// PollRepository persists poll documents. There is deliberately no delete.
type PollRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Poll) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Poll, error)
	// FindByIDForUpdate locks the poll row for the duration of the enclosing
	// transaction so the tally/map lockstep survives concurrent votes.
	FindByIDForUpdate(ctx context.Context, tx Tx, id string) (*model.Poll, error)
	// UpdateVotes writes the denormalized tallies and the vote map together.
	UpdateVotes(ctx context.Context, tx Tx, p *model.Poll) error
	// ListAll returns polls most-recent-first.
	ListAll(ctx context.Context, tx Tx) ([]*model.Poll, error)
}

type CommentRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Comment) error
	// ListByPoll returns comments oldest-first for chronological reading.
	ListByPoll(ctx context.Context, tx Tx, pollID string) ([]*model.Comment, error)
}
