package repository

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/storage"
)

type localGoalRepository struct {
	goals *localCollection[model.Goal]
	now   Clock
}

// NewLocalGoalRepository loads the goals blob from store. Goals written by
// older local versions carry no owner or timestamp; they are adopted by
// owner and stamped so their original order is kept.
func NewLocalGoalRepository(ctx context.Context, store storage.Store, owner model.Principal) (GoalRepository, error) {
	r := &localGoalRepository{now: utcNow}

	decode := func(data []byte) ([]model.Goal, error) {
		goals, err := decodeJSON[model.Goal](data)
		if err != nil {
			return nil, err
		}
		return r.adopt(goals, owner), nil
	}

	goals, err := loadCollection(ctx, store, LocalGoalsKey, decode)
	if err != nil {
		return nil, err
	}

	r.goals = goals
	return r, nil
}

func (r *localGoalRepository) adopt(goals []model.Goal, owner model.Principal) []model.Goal {
	base := r.now()
	for i := range goals {
		g := &goals[i]
		if g.OwnerID == "" {
			g.OwnerID = owner.ID
			g.OwnerEmail = owner.Email
		}
		if g.CreatedAt.IsZero() {
			g.CreatedAt = base.Add(-time.Duration(i) * time.Second)
		}
		g.SharedWithMe = false
		g.Capability = ""
	}
	return goals
}

func (r *localGoalRepository) Reload(ctx context.Context) (bool, error) {
	return r.goals.reload(ctx)
}

func (r *localGoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	goal.CreatedAt = r.now()
	stored := *goal
	stored.Shares = append([]model.ShareGrant{}, goal.Shares...)
	stored.SharedWithMe = false
	stored.Capability = ""

	return r.goals.mutate(ctx, func(items []model.Goal) ([]model.Goal, error) {
		return append(items, stored), nil
	})
}

func (r *localGoalRepository) ByID(_ context.Context, goalID string) (*model.Goal, error) {
	for _, g := range r.goals.all() {
		if g.ID == goalID {
			return copyGoal(g), nil
		}
	}
	return nil, ErrGoalNotFound
}

func (r *localGoalRepository) OwnedBy(_ context.Context, ownerID string) ([]*model.Goal, error) {
	return r.filter(func(g model.Goal) bool { return g.OwnerID == ownerID }), nil
}

func (r *localGoalRepository) SharedWith(_ context.Context, email string) ([]*model.Goal, error) {
	return r.filter(func(g model.Goal) bool {
		_, ok := g.Share(email)
		return ok
	}), nil
}

func (r *localGoalRepository) Update(ctx context.Context, actor model.Principal, goalID string, patch model.GoalPatch) error {
	return r.goals.mutate(ctx, func(items []model.Goal) ([]model.Goal, error) {
		i := slices.IndexFunc(items, func(g model.Goal) bool { return g.ID == goalID })
		if i < 0 {
			return nil, ErrGoalNotFound
		}
		if !model.ResolveCapability(&items[i], actor).CanEdit() {
			return nil, ErrPermissionDenied
		}

		if patch.Name != nil {
			items[i].Name = *patch.Name
		}
		if patch.Target != nil {
			items[i].Target = *patch.Target
		}
		return items, nil
	})
}

func (r *localGoalRepository) Delete(ctx context.Context, actor model.Principal, goalID string) error {
	err := r.goals.mutate(ctx, func(items []model.Goal) ([]model.Goal, error) {
		i := slices.IndexFunc(items, func(g model.Goal) bool { return g.ID == goalID })
		if i < 0 {
			return nil, ErrGoalNotFound
		}
		if !model.ResolveCapability(&items[i], actor).CanManage() {
			return nil, ErrPermissionDenied
		}
		return slices.Delete(items, i, i+1), nil
	})
	if errors.Is(err, ErrGoalNotFound) {
		return nil
	}
	return err
}

func (r *localGoalRepository) PutShare(ctx context.Context, actor model.Principal, goalID string, grant model.ShareGrant) (bool, error) {
	var added bool
	err := r.updateShares(ctx, actor, goalID, func(g *model.Goal) []model.ShareGrant {
		_, shared := g.Share(grant.Email)
		added = !shared
		return g.WithShare(grant)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *localGoalRepository) RemoveShare(ctx context.Context, actor model.Principal, goalID, email string) error {
	return r.updateShares(ctx, actor, goalID, func(g *model.Goal) []model.ShareGrant {
		return g.WithoutShare(email)
	})
}

func (r *localGoalRepository) updateShares(ctx context.Context, actor model.Principal, goalID string, fn func(g *model.Goal) []model.ShareGrant) error {
	return r.goals.mutate(ctx, func(items []model.Goal) ([]model.Goal, error) {
		i := slices.IndexFunc(items, func(g model.Goal) bool { return g.ID == goalID })
		if i < 0 {
			return nil, ErrGoalNotFound
		}
		if !model.ResolveCapability(&items[i], actor).CanManage() {
			return nil, ErrPermissionDenied
		}
		items[i].Shares = fn(&items[i])
		return items, nil
	})
}

func (r *localGoalRepository) filter(keep func(g model.Goal) bool) []*model.Goal {
	var out []*model.Goal
	for _, g := range r.goals.all() {
		if keep(g) {
			out = append(out, copyGoal(g))
		}
	}
	sortNewestFirst(out, func(g *model.Goal) (time.Time, string) { return g.CreatedAt, g.ID })
	return out
}

func copyGoal(g model.Goal) *model.Goal {
	g.Shares = append([]model.ShareGrant{}, g.Shares...)
	return &g
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		switch {
		case ia > ib:
			return -1
		case ia < ib:
			return 1
		}
		return 0
	})
}
