package repository

import (
	"context"
	"slices"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

type localSettingsRepository struct {
	items *localCollection[model.Settings]
	now   Clock
}

func NewLocalSettingsRepository(ctx context.Context, store storage.Store) (SettingsRepository, error) {
	items, err := loadCollection[model.Settings](ctx, store, LocalSettingsKey, nil)
	if err != nil {
		return nil, err
	}
	return &localSettingsRepository{items: items, now: utcNow}, nil
}

func (r *localSettingsRepository) Reload(ctx context.Context) (bool, error) {
	return r.items.reload(ctx)
}

func (r *localSettingsRepository) ByUserID(_ context.Context, userID string) (*model.Settings, error) {
	for _, s := range r.items.all() {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, ErrSettingsNotFound
}

func (r *localSettingsRepository) Upsert(ctx context.Context, s *model.Settings) error {
	s.UpdatedAt = r.now()
	stored := *s

	return r.items.mutate(ctx, func(items []model.Settings) ([]model.Settings, error) {
		i := slices.IndexFunc(items, func(x model.Settings) bool { return x.UserID == stored.UserID })
		if i < 0 {
			return append(items, stored), nil
		}
		items[i] = stored
		return items, nil
	})
}
