package repository

import (
	"context"
	"slices"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

type localUserRepository struct {
	items *localCollection[model.User]
}

func NewLocalUserRepository(ctx context.Context, store storage.Store) (UserRepository, error) {
	items, err := loadCollection[model.User](ctx, store, LocalUsersKey, nil)
	if err != nil {
		return nil, err
	}
	return &localUserRepository{items: items}, nil
}

func (r *localUserRepository) Create(ctx context.Context, user *model.User) error {
	stored := *user
	stored.Email = model.NormalizeEmail(stored.Email)

	return r.items.mutate(ctx, func(items []model.User) ([]model.User, error) {
		if slices.ContainsFunc(items, func(u model.User) bool { return u.Email == stored.Email }) {
			return nil, ErrDuplicateEmail
		}
		return append(items, stored), nil
	})
}

func (r *localUserRepository) ByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range r.items.all() {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *localUserRepository) ByEmail(_ context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	for _, u := range r.items.all() {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}
