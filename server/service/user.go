package service

import (
	"context"

	"github.com/Daskott/rolodex/server/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const errEmailExists = "email already exists"

// UserRepository is the storage access the user service depends on.
type UserRepository interface {
	Create(ctx context.Context, name, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, fields models.UserFields) (*models.User, error)
	Remove(ctx context.Context, id string) (*models.User, error)
}

// UserService enforces email uniqueness across users.
//
// Uniqueness is checked before every write, but the check and the write are
// not atomic: the store's unique index is what actually guarantees it, and a
// violation reported by the store is surfaced as ErrConflict as well.
type UserService struct {
	users UserRepository
	logg  *zap.SugaredLogger
}

func NewUserService(users UserRepository, logg *zap.SugaredLogger) *UserService {
	return &UserService{users: users, logg: logg.With("service", "UserService")}
}

func (us *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	existing, err := us.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		us.logg.Infow("rejected user create", "reason", errEmailExists)
		return nil, conflict(errEmailExists)
	}

	user, err := us.users.Create(ctx, name, email)
	if models.IsUniqueViolation(err) {
		us.logg.Warnw("store rejected user create", "reason", errEmailExists)
		return nil, conflict(errEmailExists)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID returns nil, nil if no user has the given id.
func (us *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return us.users.FindByID(ctx, id)
}

// GetByEmail returns nil, nil if no user has the given email.
func (us *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return us.users.FindByEmail(ctx, email)
}

func (us *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	return us.users.FindAll(ctx)
}

// Update replaces exactly the non-nil fields. Callers wanting to keep a value
// must either leave it nil or pass the current one.
func (us *UserService) Update(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	user, err := us.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, notFound("user not found")
	}

	if fields.Email != nil {
		owner, err := us.users.FindByEmail(ctx, *fields.Email)
		if err != nil {
			return nil, err
		}

		if owner != nil && owner.ID != id {
			us.logg.Infow("rejected user update", "id", id, "reason", errEmailExists)
			return nil, conflict(errEmailExists)
		}
	}

	updated, err := us.users.Update(ctx, id, fields)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		return nil, notFound("user not found")
	case models.IsUniqueViolation(err):
		us.logg.Warnw("store rejected user update", "id", id, "reason", errEmailExists)
		return nil, conflict(errEmailExists)
	case err != nil:
		return nil, err
	}

	return updated, nil
}

// Delete removes the user and returns the removed record.
// What happens to the user's contacts is up to the store.
func (us *UserService) Delete(ctx context.Context, id string) (*models.User, error) {
	user, err := us.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, notFound("user not found")
	}

	removed, err := us.users.Remove(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	return removed, nil
}
