package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

func TestSettingsRepositoryUpsert(t *testing.T) {
	local, err := NewLocalSettingsRepository(context.Background(), storage.NewMemoryStore())
	require.NoError(t, err)

	backends := map[string]SettingsRepository{
		"sql":   NewSettingsRepository(newTestDB(t)),
		"local": local,
	}

	for name, repo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.ByUserID(ctx, "u1")
			assert.ErrorIs(t, err, ErrSettingsNotFound)

			s := model.DefaultSettings("u1")
			require.NoError(t, repo.Upsert(ctx, &s))

			s.AmbitiousMonthly = 900
			require.NoError(t, repo.Upsert(ctx, &s))

			got, err := repo.ByUserID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 200.0, got.ConservativeMonthly)
			assert.Equal(t, 900.0, got.AmbitiousMonthly)
		})
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	local, err := NewLocalUserRepository(context.Background(), storage.NewMemoryStore())
	require.NoError(t, err)

	backends := map[string]UserRepository{
		"sql":   NewUserRepository(newTestDB(t)),
		"local": local,
	}

	for name, repo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, &model.User{ID: "u1", Email: "a@x.com"}))
			assert.ErrorIs(t, repo.Create(ctx, &model.User{ID: "u2", Email: "a@x.com"}), ErrDuplicateEmail)

			u, err := repo.ByEmail(ctx, "A@x.com")
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)

			_, err = repo.ByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}
