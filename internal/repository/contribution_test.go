package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

func contributionBackends(t *testing.T) map[string]ContributionRepository {
	t.Helper()

	sqlRepo := NewContributionRepository(newTestDB(t)).(*contributionRepository)
	sqlRepo.now = ticker()

	local, err := NewLocalContributionRepository(context.Background(), storage.NewMemoryStore(), owner)
	require.NoError(t, err)
	local.(*localContributionRepository).now = ticker()

	return map[string]ContributionRepository{"sql": sqlRepo, "local": local}
}

func TestContributionRepositoryContract(t *testing.T) {
	for name, repo := range contributionBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			c1 := &model.Contribution{ID: "c1", Date: "2026-01-05", Amount: 300, Note: "Enero", OwnerID: owner.ID}
			c2 := &model.Contribution{ID: "c2", Date: "2026-02-10", Amount: 400, Note: "Febrero", OwnerID: owner.ID}
			c3 := &model.Contribution{ID: "c3", Date: "2026-02-11", Amount: 50, Note: "x", OwnerID: other.ID}
			for _, c := range []*model.Contribution{c1, c2, c3} {
				require.NoError(t, repo.Create(ctx, c))
			}

			list, err := repo.OwnedBy(ctx, owner.ID)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "c2", list[0].ID)
			assert.Equal(t, "c1", list[1].ID)

			require.NoError(t, repo.Update(ctx, owner, "c1", model.ContributionPatch{Amount: ptr(350.0)}))
			got, err := repo.ByID(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, 350.0, got.Amount)
			assert.Equal(t, "Enero", got.Note)
			assert.Equal(t, "2026-01-05", got.Date)

			assert.ErrorIs(t, repo.Update(ctx, other, "c1", model.ContributionPatch{Note: ptr("mine")}), ErrPermissionDenied)
			assert.ErrorIs(t, repo.Update(ctx, owner, "nope", model.ContributionPatch{Note: ptr("x")}), ErrContributionNotFound)

			assert.ErrorIs(t, repo.Delete(ctx, other, "c1"), ErrPermissionDenied)
			require.NoError(t, repo.Delete(ctx, owner, "c1"))
			require.NoError(t, repo.Delete(ctx, owner, "c1"))

			list, err = repo.OwnedBy(ctx, owner.ID)
			require.NoError(t, err)
			require.Len(t, list, 1)
		})
	}
}
