package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

func TestSeedLocalOnlyOnFirstRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	wrote, err := SeedLocal(ctx, store, owner)
	require.NoError(t, err)
	assert.True(t, wrote)

	goals, err := NewLocalGoalRepository(ctx, store, owner)
	require.NoError(t, err)
	list, err := goals.OwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "italia", list[0].ID)

	require.NoError(t, goals.Delete(ctx, owner, "italia"))

	wrote, err = SeedLocal(ctx, store, owner)
	require.NoError(t, err)
	assert.False(t, wrote)

	contributions, err := NewLocalContributionRepository(ctx, store, owner)
	require.NoError(t, err)
	cs, err := contributions.OwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "c2", cs[0].ID)
}

func TestLocalGoalsPersistAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	repo, err := NewLocalGoalRepository(ctx, store, owner)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &model.Goal{ID: "g1", Name: "Trip", Target: 1000, OwnerID: owner.ID}))
	_, err = repo.PutShare(ctx, owner, "g1", model.ShareGrant{Email: "v@x.com"})
	require.NoError(t, err)

	reloaded, err := NewLocalGoalRepository(ctx, store, owner)
	require.NoError(t, err)
	g, err := reloaded.ByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Trip", g.Name)
	assert.Equal(t, []model.ShareGrant{{Email: "v@x.com"}}, g.Shares)
}

func TestLocalLegacyBlobsAreUpgraded(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(ctx, LocalGoalsKey, []byte(`[{"id":"italia","name":"Viaje a Italia","target":7000}]`)))
	require.NoError(t, store.Put(ctx, LocalContributionsKey, []byte(
		`[{"id":"c2","month":"2026-02","amount":400,"note":"Febrero"},{"id":"c1","date":"2026-01-05","amount":300,"note":"Enero"}]`,
	)))

	goals, err := NewLocalGoalRepository(ctx, store, owner)
	require.NoError(t, err)
	list, err := goals.OwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, owner.Email, list[0].OwnerEmail)

	contributions, err := NewLocalContributionRepository(ctx, store, owner)
	require.NoError(t, err)
	cs, err := contributions.OwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "c2", cs[0].ID)
	assert.Equal(t, "2026-02-01", cs[0].Date)
	assert.Equal(t, "2026-01-05", cs[1].Date)
}

type failingStore struct {
	*storage.MemoryStore
	fail bool
}

func (s *failingStore) Put(ctx context.Context, key string, data []byte) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.Put(ctx, key, data)
}

func TestLocalWriteFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: storage.NewMemoryStore()}

	repo, err := NewLocalContributionRepository(ctx, store, owner)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &model.Contribution{ID: "c1", Date: "2026-01-05", Amount: 300, OwnerID: owner.ID}))

	store.fail = true
	err = repo.Update(ctx, owner, "c1", model.ContributionPatch{Amount: ptr(999.0)})
	require.Error(t, err)

	c, err := repo.ByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 300.0, c.Amount)
}
