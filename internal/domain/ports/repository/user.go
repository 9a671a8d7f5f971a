package repository

import (
	"context"

	"propfirm-web/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// SetUsername claims the one-time display name; ErrAlreadyExists when the
	// name is taken, ErrUsernameSet when the user already claimed one.
	SetUsername(ctx context.Context, tx Tx, id, username string) error
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
