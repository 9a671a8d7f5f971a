package usecase

import (
	"context"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/logging"
	"propfirm-web/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ PollUseCase = (*pollUC)(nil)

// PollUseCase is the community pulse feature: named users create polls, cast
// one reversible vote each, and comment. Every interaction requires the
// one-time display name.
type PollUseCase interface {
	Create(ctx context.Context, userID, title, description string) (*model.Poll, error)
	// List returns every poll most-recent-first with current tallies.
	List(ctx context.Context) ([]*model.Poll, error)
	// Vote applies cast/retract/switch in one operation; callers never need
	// the prior state.
	Vote(ctx context.Context, pollID, userID string, choice model.VoteChoice) (*model.Poll, error)
	Comment(ctx context.Context, pollID, userID, text string) (*model.Comment, error)
	Comments(ctx context.Context, pollID string) ([]*model.Comment, error)
}

type pollUC struct {
	polls    repository.PollRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewPollUseCase(
	polls repository.PollRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *pollUC {
	return &pollUC{polls: polls, comments: comments, users: users, tm: tm, log: logger}
}

// requireNamed loads the user and enforces the display-name gate.
func (u *pollUC) requireNamed(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasUsername() {
		return nil, domain.ErrUsernameRequired
	}
	return user, nil
}

func (u *pollUC) Create(ctx context.Context, userID, title, description string) (*model.Poll, error) {
	defer logging.TraceDuration(u.log, "PollUC.Create")()

	user, err := u.requireNamed(ctx, userID)
	if err != nil {
		return nil, err
	}
	poll, err := model.NewPoll(ulid.Make().String(), title, description, user.Username)
	if err != nil {
		return nil, err
	}
	if err := u.polls.Save(ctx, repository.NoTX, poll); err != nil {
		return nil, err
	}
	metrics.IncPollCreated()
	return poll, nil
}

func (u *pollUC) List(ctx context.Context) ([]*model.Poll, error) {
	return u.polls.ListAll(ctx, repository.NoTX)
}

func (u *pollUC) Vote(ctx context.Context, pollID, userID string, choice model.VoteChoice) (*model.Poll, error) {
	defer logging.TraceDuration(u.log, "PollUC.Vote")()

	if _, err := u.requireNamed(ctx, userID); err != nil {
		return nil, err
	}

	var updated *model.Poll
	// The row lock keeps the denormalized tallies in lockstep with the vote
	// map when two sessions vote at once; across sessions the last writer
	// wins and the follow-up list re-read reconciles the display.
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		poll, err := u.polls.FindByIDForUpdate(ctx, tx, pollID)
		if err != nil {
			return err
		}
		prev, had := poll.Votes[userID]
		if err := poll.CastVote(userID, choice); err != nil {
			return err
		}
		switch {
		case !had:
			metrics.IncVote("cast")
		case prev == choice:
			metrics.IncVote("retract")
		default:
			metrics.IncVote("switch")
		}
		updated = poll
		return u.polls.UpdateVotes(ctx, tx, poll)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *pollUC) Comment(ctx context.Context, pollID, userID, text string) (*model.Comment, error) {
	user, err := u.requireNamed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := u.polls.FindByID(ctx, repository.NoTX, pollID); err != nil {
		return nil, err
	}
	comment, err := model.NewComment(ulid.Make().String(), pollID, user.Username, text)
	if err != nil {
		return nil, err
	}
	if err := u.comments.Save(ctx, repository.NoTX, comment); err != nil {
		return nil, err
	}
	metrics.IncComment()
	return comment, nil
}

func (u *pollUC) Comments(ctx context.Context, pollID string) ([]*model.Comment, error) {
	return u.comments.ListByPoll(ctx, repository.NoTX, pollID)
}
