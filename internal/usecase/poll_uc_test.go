// File: internal/usecase/poll_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
)

func newPollHarness(t *testing.T) (*pollUC, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	ctx := context.Background()

	named, err := model.NewUser("uid-named", "named@example.test")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if err := users.Save(ctx, repository.NoTX, named); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := users.SetUsername(ctx, repository.NoTX, "uid-named", "ada_fx"); err != nil {
		t.Fatalf("SetUsername: %v", err)
	}

	anon, err := model.NewUser("uid-anon", "anon@example.test")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if err := users.Save(ctx, repository.NoTX, anon); err != nil {
		t.Fatalf("Save: %v", err)
	}

	uc := NewPollUseCase(newMemPollRepo(), newMemCommentRepo(), users, fakeTxManager{}, newTestLogger())
	return uc, users
}

func TestPollCreateRequiresDisplayName(t *testing.T) {
	t.Parallel()
	uc, _ := newPollHarness(t)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "uid-anon", "Add a 500k tier?", ""); !errors.Is(err, domain.ErrUsernameRequired) {
		t.Fatalf("unnamed user: err = %v, want ErrUsernameRequired", err)
	}
	if _, err := uc.Create(ctx, "uid-ghost", "Add a 500k tier?", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: err = %v, want ErrNotFound", err)
	}

	poll, err := uc.Create(ctx, "uid-named", "Add a 500k tier?", "One evaluation step, same targets.")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if poll.CreatorName != "ada_fx" {
		t.Errorf("creator = %q, want the display name", poll.CreatorName)
	}
	if poll.YesVotes != 0 || poll.NoVotes != 0 || len(poll.Votes) != 0 {
		t.Errorf("fresh poll has votes: %+v", poll)
	}
}

func TestPollVoteToggleThroughUseCase(t *testing.T) {
	t.Parallel()
	uc, _ := newPollHarness(t)
	ctx := context.Background()

	poll, err := uc.Create(ctx, "uid-named", "Weekend holding?", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := uc.Vote(ctx, poll.ID, "uid-named", model.VoteYes)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got.YesVotes != 1 || got.NoVotes != 0 {
		t.Fatalf("cast: %d/%d", got.YesVotes, got.NoVotes)
	}

	// Same choice again retracts.
	got, err = uc.Vote(ctx, poll.ID, "uid-named", model.VoteYes)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got.YesVotes != 0 || len(got.Votes) != 0 {
		t.Fatalf("retract: %d votes, map %v", got.YesVotes, got.Votes)
	}

	// Cast then switch.
	if _, err := uc.Vote(ctx, poll.ID, "uid-named", model.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	got, err = uc.Vote(ctx, poll.ID, "uid-named", model.VoteNo)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got.YesVotes != 0 || got.NoVotes != 1 {
		t.Fatalf("switch: %d/%d", got.YesVotes, got.NoVotes)
	}

	// The toggled result is what subsequent reads see.
	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].NoVotes != 1 {
		t.Fatalf("list out of sync: %+v", list)
	}
}

func TestPollVoteGuards(t *testing.T) {
	t.Parallel()
	uc, _ := newPollHarness(t)
	ctx := context.Background()

	poll, err := uc.Create(ctx, "uid-named", "Scale plan?", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uc.Vote(ctx, poll.ID, "uid-anon", model.VoteYes); !errors.Is(err, domain.ErrUsernameRequired) {
		t.Fatalf("unnamed vote: err = %v, want ErrUsernameRequired", err)
	}
	if _, err := uc.Vote(ctx, "missing-poll", "uid-named", model.VoteYes); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing poll: err = %v, want ErrNotFound", err)
	}
	if _, err := uc.Vote(ctx, poll.ID, "uid-named", model.VoteChoice("maybe")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("bad choice: err = %v, want ErrInvalidArgument", err)
	}
}

func TestPollComments(t *testing.T) {
	t.Parallel()
	uc, _ := newPollHarness(t)
	ctx := context.Background()

	poll, err := uc.Create(ctx, "uid-named", "Payout split?", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uc.Comment(ctx, poll.ID, "uid-anon", "first"); !errors.Is(err, domain.ErrUsernameRequired) {
		t.Fatalf("unnamed comment: err = %v, want ErrUsernameRequired", err)
	}
	if _, err := uc.Comment(ctx, "missing-poll", "uid-named", "first"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing poll: err = %v, want ErrNotFound", err)
	}

	c, err := uc.Comment(ctx, poll.ID, "uid-named", "90/10 would be fair")
	if err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if c.AuthorName != "ada_fx" {
		t.Errorf("author = %q", c.AuthorName)
	}

	comments, err := uc.Comments(ctx, poll.ID)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != c.ID {
		t.Fatalf("comments = %+v", comments)
	}
}
