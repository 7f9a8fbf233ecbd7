package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

func seedGoals(owner model.Principal, now time.Time) []model.Goal {
	goals := []model.Goal{
		{ID: "italia", Name: "Viaje a Italia", Target: 7000},
		{ID: "nueva-york", Name: "Nueva York", Target: 5000},
		{ID: "casa", Name: "Comprar Casa", Target: 250000},
	}
	for i := range goals {
		goals[i].OwnerID = owner.ID
		goals[i].OwnerEmail = owner.Email
		goals[i].Shares = []model.ShareGrant{}
		goals[i].CreatedAt = now.Add(-time.Duration(i) * time.Second)
	}
	return goals
}

func seedContributions(owner model.Principal, now time.Time) []model.Contribution {
	return []model.Contribution{
		{ID: "c2", Date: "2026-02-10", Amount: 400, Note: "Febrero", OwnerID: owner.ID, CreatedAt: now},
		{ID: "c1", Date: "2026-01-05", Amount: 300, Note: "Enero", OwnerID: owner.ID, CreatedAt: now.Add(-time.Second)},
	}
}

// SeedLocal writes the default goals and contributions for owner into any
// collection blob that does not exist yet. It reports whether anything was
// written.
func SeedLocal(ctx context.Context, store storage.Store, owner model.Principal) (bool, error) {
	now := utcNow()

	wroteGoals, err := seedBlob(ctx, store, LocalGoalsKey, seedGoals(owner, now))
	if err != nil {
		return false, err
	}

	wroteContributions, err := seedBlob(ctx, store, LocalContributionsKey, seedContributions(owner, now))
	if err != nil {
		return false, err
	}

	return wroteGoals || wroteContributions, nil
}

func seedBlob(ctx context.Context, store storage.Store, key string, items any) (bool, error) {
	_, err := store.Get(ctx, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", key, err)
	}

	err = store.Put(ctx, key, data)
	if err != nil {
		return false, fmt.Errorf("failed to seed %s: %w", key, err)
	}
	return true, nil
}
