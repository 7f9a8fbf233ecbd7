package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

var (
	owner  = model.Principal{ID: "owner", Email: "owner@x.com"}
	editor = model.Principal{ID: "editor", Email: "editor@x.com"}
	viewer = model.Principal{ID: "viewer", Email: "viewer@x.com"}
	other  = model.Principal{ID: "other", Email: "other@x.com"}
)

// goalBackends runs the same contract against the SQL and local backends.
func goalBackends(t *testing.T) map[string]GoalRepository {
	t.Helper()

	sqlRepo := NewGoalRepository(newTestDB(t)).(*goalRepository)
	sqlRepo.now = ticker()

	local, err := NewLocalGoalRepository(context.Background(), storage.NewMemoryStore(), owner)
	require.NoError(t, err)
	local.(*localGoalRepository).now = ticker()

	return map[string]GoalRepository{"sql": sqlRepo, "local": local}
}

func TestGoalRepositoryContract(t *testing.T) {
	for name, repo := range goalBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			trip := &model.Goal{ID: "g1", Name: "Trip", Target: 1000, OwnerID: owner.ID, OwnerEmail: owner.Email}
			house := &model.Goal{ID: "g2", Name: "House", Target: 250000, OwnerID: owner.ID, OwnerEmail: owner.Email}
			require.NoError(t, repo.Create(ctx, trip))
			require.NoError(t, repo.Create(ctx, house))
			assert.False(t, trip.CreatedAt.IsZero())

			owned, err := repo.OwnedBy(ctx, owner.ID)
			require.NoError(t, err)
			require.Len(t, owned, 2)
			assert.Equal(t, "g2", owned[0].ID, "newest first")
			assert.Equal(t, "g1", owned[1].ID)

			// Sharing: re-grant replaces
			added, err := repo.PutShare(ctx, owner, "g1", model.ShareGrant{Email: "Viewer@x.com", CanEdit: false})
			require.NoError(t, err)
			assert.True(t, added)
			added, err = repo.PutShare(ctx, owner, "g1", model.ShareGrant{Email: "viewer@x.com", CanEdit: true})
			require.NoError(t, err)
			assert.False(t, added, "replacing a grant")
			got, err := repo.ByID(ctx, "g1")
			require.NoError(t, err)
			assert.Equal(t, []model.ShareGrant{{Email: "viewer@x.com", CanEdit: true}}, got.Shares)

			shared, err := repo.SharedWith(ctx, "VIEWER@x.com")
			require.NoError(t, err)
			require.Len(t, shared, 1)
			assert.Equal(t, "g1", shared[0].ID)

			// Only the owner manages shares
			_, err = repo.PutShare(ctx, viewer, "g1", model.ShareGrant{Email: "other@x.com"})
			assert.ErrorIs(t, err, ErrPermissionDenied)

			// Edit grantee may update, merge patch leaves target alone
			require.NoError(t, repo.Update(ctx, viewer, "g1", model.GoalPatch{Name: ptr("Trip to Rome")}))
			got, err = repo.ByID(ctx, "g1")
			require.NoError(t, err)
			assert.Equal(t, "Trip to Rome", got.Name)
			assert.Equal(t, 1000.0, got.Target)

			// Read-only grantee and strangers may not
			_, err = repo.PutShare(ctx, owner, "g1", model.ShareGrant{Email: "viewer@x.com", CanEdit: false})
			require.NoError(t, err)
			err = repo.Update(ctx, viewer, "g1", model.GoalPatch{Target: ptr(5.0)})
			assert.ErrorIs(t, err, ErrPermissionDenied)
			err = repo.Update(ctx, other, "g1", model.GoalPatch{Target: ptr(5.0)})
			assert.ErrorIs(t, err, ErrPermissionDenied)
			err = repo.Update(ctx, owner, "missing", model.GoalPatch{Target: ptr(5.0)})
			assert.ErrorIs(t, err, ErrGoalNotFound)

			// Revoke, twice
			require.NoError(t, repo.RemoveShare(ctx, owner, "g1", "viewer@x.com"))
			require.NoError(t, repo.RemoveShare(ctx, owner, "g1", "viewer@x.com"))
			shared, err = repo.SharedWith(ctx, "viewer@x.com")
			require.NoError(t, err)
			assert.Empty(t, shared)

			// Delete: owner only, idempotent
			assert.ErrorIs(t, repo.Delete(ctx, other, "g1"), ErrPermissionDenied)
			require.NoError(t, repo.Delete(ctx, owner, "g1"))
			require.NoError(t, repo.Delete(ctx, owner, "g1"))
			require.NoError(t, repo.Delete(ctx, owner, "never-existed"))
			_, err = repo.ByID(ctx, "g1")
			assert.ErrorIs(t, err, ErrGoalNotFound)
		})
	}
}

func TestGoalRepositoryEditorCannotDelete(t *testing.T) {
	for name, repo := range goalBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, &model.Goal{ID: "g1", Name: "Trip", Target: 1000, OwnerID: owner.ID}))
			_, err := repo.PutShare(ctx, owner, "g1", model.ShareGrant{Email: editor.Email, CanEdit: true})
			require.NoError(t, err)

			assert.ErrorIs(t, repo.Delete(ctx, editor, "g1"), ErrPermissionDenied)
			assert.ErrorIs(t, repo.RemoveShare(ctx, editor, "g1", editor.Email), ErrPermissionDenied)
		})
	}
}
