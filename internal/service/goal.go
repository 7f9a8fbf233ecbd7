package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/repository"
	"github.com/templui/ahorros/internal/validation"
)

type GoalService struct {
	repo      repository.GoalRepository
	hub       *live.Hub
	publisher live.Publisher
}

func NewGoalService(repo repository.GoalRepository, hub *live.Hub, publisher live.Publisher) *GoalService {
	return &GoalService{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
	}
}

func (s *GoalService) Create(ctx context.Context, actor model.Principal, name string, target float64) (*model.Goal, error) {
	name = strings.TrimSpace(name)
	err := validation.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	if validation.ValidateAmount(target) != nil {
		return nil, ErrInvalidTarget
	}

	goal := &model.Goal{
		ID:         uuid.New().String(),
		Name:       name,
		Target:     target,
		OwnerID:    actor.ID,
		OwnerEmail: model.NormalizeEmail(actor.Email),
		Shares:     []model.ShareGrant{},
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	s.publisher.Publish(ctx, live.TopicGoals)

	slog.Info("goal created", "goal_id", goal.ID, "user_id", actor.ID)
	return goal.ForViewer(actor), nil
}

// ByID returns the goal if actor can see it. Goals the actor has no access
// to are reported as not found.
func (s *GoalService) ByID(ctx context.Context, actor model.Principal, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	view := goal.ForViewer(actor)
	if view.Capability == model.CapabilityNone {
		return nil, repository.ErrGoalNotFound
	}
	return view, nil
}

// Goals returns the goals actor owns plus those shared with them, newest
// first.
func (s *GoalService) Goals(ctx context.Context, actor model.Principal) ([]*model.Goal, error) {
	owned, err := s.owned(actor)(ctx)
	if err != nil {
		return nil, err
	}
	shared, err := s.shared(actor)(ctx)
	if err != nil {
		return nil, err
	}
	return mergeGoals(actor, owned, shared), nil
}

// Subscribe watches the owned and shared feeds independently and emits their
// merge once both have answered.
func (s *GoalService) Subscribe(ctx context.Context, actor model.Principal) *live.Subscription[[]*model.Goal] {
	owned := live.Watch(ctx, s.hub, s.owned(actor), live.TopicGoals)
	shared := live.Watch(ctx, s.hub, s.shared(actor), live.TopicGoals)

	return live.Join(ctx, owned, shared, func(o, sh []*model.Goal) []*model.Goal {
		return mergeGoals(actor, o, sh)
	})
}

func (s *GoalService) Update(ctx context.Context, actor model.Principal, goalID string, patch model.GoalPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		err := validation.ValidateName(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidName, err)
		}
		patch.Name = &name
	}
	if patch.Target != nil && validation.ValidateAmount(*patch.Target) != nil {
		return ErrInvalidTarget
	}

	err := s.repo.Update(ctx, actor, goalID, patch)
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, live.TopicGoals)
	return nil
}

func (s *GoalService) Delete(ctx context.Context, actor model.Principal, goalID string) error {
	err := s.repo.Delete(ctx, actor, goalID)
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, live.TopicGoals)

	slog.Info("goal deleted", "goal_id", goalID, "user_id", actor.ID)
	return nil
}

func (s *GoalService) owned(actor model.Principal) func(context.Context) ([]*model.Goal, error) {
	return func(ctx context.Context) ([]*model.Goal, error) {
		goals, err := s.repo.OwnedBy(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list owned goals: %w", err)
		}
		return goals, nil
	}
}

func (s *GoalService) shared(actor model.Principal) func(context.Context) ([]*model.Goal, error) {
	return func(ctx context.Context) ([]*model.Goal, error) {
		if actor.Email == "" {
			return nil, nil
		}
		goals, err := s.repo.SharedWith(ctx, actor.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to list shared goals: %w", err)
		}
		return goals, nil
	}
}

// mergeGoals annotates both lists for actor and returns them as one list,
// newest first. A goal present in both keeps its owned entry.
func mergeGoals(actor model.Principal, owned, shared []*model.Goal) []*model.Goal {
	out := make([]*model.Goal, 0, len(owned)+len(shared))
	seen := make(map[string]bool, len(owned))

	for _, g := range owned {
		seen[g.ID] = true
		out = append(out, g.ForViewer(actor))
	}
	for _, g := range shared {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g.ForViewer(actor))
	}

	slices.SortStableFunc(out, func(a, b *model.Goal) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out
}

// IsNotFound reports whether err means the requested entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrGoalNotFound) ||
		errors.Is(err, repository.ErrContributionNotFound) ||
		errors.Is(err, repository.ErrUserNotFound)
}
