package repository

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

// legacyContribution is the on-disk shape written by older local versions,
// which stored a month ("2026-01") instead of a date.
type legacyContribution struct {
	model.Contribution
	Month string `json:"month,omitempty"`
}

type localContributionRepository struct {
	items *localCollection[model.Contribution]
	now   Clock
}

func NewLocalContributionRepository(ctx context.Context, store storage.Store, owner model.Principal) (ContributionRepository, error) {
	r := &localContributionRepository{now: utcNow}

	decode := func(data []byte) ([]model.Contribution, error) {
		var raw []legacyContribution
		err := json.Unmarshal(data, &raw)
		if err != nil {
			return nil, err
		}
		return r.upgrade(raw, owner), nil
	}

	items, err := loadCollection(ctx, store, LocalContributionsKey, decode)
	if err != nil {
		return nil, err
	}

	r.items = items
	return r, nil
}

func (r *localContributionRepository) Reload(ctx context.Context) (bool, error) {
	return r.items.reload(ctx)
}

func (r *localContributionRepository) upgrade(raw []legacyContribution, owner model.Principal) []model.Contribution {
	base := r.now()
	out := make([]model.Contribution, 0, len(raw))
	for i, lc := range raw {
		c := lc.Contribution
		if c.Date == "" && lc.Month != "" {
			c.Date = lc.Month + "-01"
		}
		if c.Date == "" {
			c.Date = base.Format(model.DateLayout)
		}
		if c.OwnerID == "" {
			c.OwnerID = owner.ID
		}
		if c.CreatedAt.IsZero() {
			// Older blobs were kept newest first
			c.CreatedAt = base.Add(-time.Duration(i) * time.Second)
		}
		out = append(out, c)
	}
	return out
}

func (r *localContributionRepository) Create(ctx context.Context, c *model.Contribution) error {
	c.CreatedAt = r.now()
	stored := *c

	return r.items.mutate(ctx, func(items []model.Contribution) ([]model.Contribution, error) {
		return append(items, stored), nil
	})
}

func (r *localContributionRepository) ByID(_ context.Context, id string) (*model.Contribution, error) {
	for _, c := range r.items.all() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrContributionNotFound
}

func (r *localContributionRepository) OwnedBy(_ context.Context, ownerID string) ([]*model.Contribution, error) {
	var out []*model.Contribution
	for _, c := range r.items.all() {
		if c.OwnerID == ownerID {
			out = append(out, &c)
		}
	}
	sortNewestFirst(out, func(c *model.Contribution) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func (r *localContributionRepository) Update(ctx context.Context, actor model.Principal, id string, patch model.ContributionPatch) error {
	return r.items.mutate(ctx, func(items []model.Contribution) ([]model.Contribution, error) {
		i := slices.IndexFunc(items, func(c model.Contribution) bool { return c.ID == id })
		if i < 0 {
			return nil, ErrContributionNotFound
		}
		if items[i].OwnerID != actor.ID {
			return nil, ErrPermissionDenied
		}

		if patch.Date != nil {
			items[i].Date = *patch.Date
		}
		if patch.Amount != nil {
			items[i].Amount = *patch.Amount
		}
		if patch.Note != nil {
			items[i].Note = *patch.Note
		}
		return items, nil
	})
}

func (r *localContributionRepository) Delete(ctx context.Context, actor model.Principal, id string) error {
	err := r.items.mutate(ctx, func(items []model.Contribution) ([]model.Contribution, error) {
		i := slices.IndexFunc(items, func(c model.Contribution) bool { return c.ID == id })
		if i < 0 {
			return nil, ErrContributionNotFound
		}
		if items[i].OwnerID != actor.ID {
			return nil, ErrPermissionDenied
		}
		return slices.Delete(items, i, i+1), nil
	})
	if errors.Is(err, ErrContributionNotFound) {
		return nil
	}
	return err
}
