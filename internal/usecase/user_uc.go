package usecase

import (
	"context"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase manages site accounts keyed by the auth collaborator's uid.
type UserUseCase interface {
	// RegisterOrFetch upserts the account for an authenticated identity.
	RegisterOrFetch(ctx context.Context, uid, email string) (*model.User, error)
	FindByID(ctx context.Context, uid string) (*model.User, error)
	// ClaimUsername performs the one-time, irreversible display-name set.
	ClaimUsername(ctx context.Context, uid, username string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, tm: tm, log: logger}
}

func (u *userUC) RegisterOrFetch(ctx context.Context, uid, email string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.RegisterOrFetch")()

	var user *model.User
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.users.FindByID(ctx, tx, uid)
		if err != nil && err != domain.ErrNotFound {
			return err
		}
		if existing != nil {
			existing.Touch()
			if err := u.users.Save(ctx, tx, existing); err != nil {
				return err
			}
			user = existing
			return nil
		}
		nu, err := model.NewUser(uid, email)
		if err != nil {
			return err
		}
		if err := u.users.Save(ctx, tx, nu); err != nil {
			return err
		}
		user = nu
		return nil
	})
	return user, err
}

func (u *userUC) FindByID(ctx context.Context, uid string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, uid)
}

func (u *userUC) ClaimUsername(ctx context.Context, uid, username string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.ClaimUsername")()

	if !model.ValidUsername(username) {
		return nil, domain.ErrInvalidUsername
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, uid)
	if err != nil {
		return nil, err
	}
	if user.HasUsername() {
		return nil, domain.ErrUsernameSet
	}
	if err := u.users.SetUsername(ctx, repository.NoTX, uid, username); err != nil {
		return nil, err
	}
	user.Username = username
	u.log.Info().Str("user_id", uid).Msg("display name claimed")
	return user, nil
}

func (u *userUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	return u.users.List(ctx, repository.NoTX, offset, limit)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	return u.users.CountUsers(ctx, repository.NoTX)
}
