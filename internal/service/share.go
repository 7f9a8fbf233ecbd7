package service

import (
	"context"
	"log/slog"

	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/repository"
	"github.com/templui/ahorros/internal/validation"
)

// ShareService validates sharing requests. Who may share is decided by the
// goal repository.
type ShareService struct {
	repo      repository.GoalRepository
	publisher live.Publisher
	notifier  ShareNotifier
}

func NewShareService(repo repository.GoalRepository, publisher live.Publisher, notifier ShareNotifier) *ShareService {
	return &ShareService{repo: repo, publisher: publisher, notifier: notifier}
}

// Grant adds a grant for email or replaces the existing one.
func (s *ShareService) Grant(ctx context.Context, actor model.Principal, goalID, email string, canEdit bool) error {
	email = model.NormalizeEmail(email)
	if validation.ValidateEmail(email) != nil {
		return ErrInvalidEmail
	}

	grant := model.ShareGrant{Email: email, CanEdit: canEdit}
	added, err := s.repo.PutShare(ctx, actor, goalID, grant)
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, live.TopicGoals)

	slog.Info("goal shared", "goal_id", goalID, "user_id", actor.ID, "email", email, "can_edit", canEdit)

	// Changing an existing grant's access does not re-invite.
	if added && s.notifier != nil {
		s.invite(ctx, goalID, grant)
	}
	return nil
}

func (s *ShareService) invite(ctx context.Context, goalID string, grant model.ShareGrant) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err == nil {
		err = s.notifier.ShareGranted(ctx, goal, grant)
	}
	if err != nil {
		slog.Warn("failed to send share invite", "goal_id", goalID, "email", grant.Email, "error", err)
	}
}

// Revoke removes the grant for email. Revoking a missing grant is a no-op.
func (s *ShareService) Revoke(ctx context.Context, actor model.Principal, goalID, email string) error {
	email = model.NormalizeEmail(email)
	if email == "" {
		return ErrInvalidEmail
	}

	err := s.repo.RemoveShare(ctx, actor, goalID, email)
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, live.TopicGoals)

	slog.Info("goal share revoked", "goal_id", goalID, "user_id", actor.ID, "email", email)
	return nil
}

func (s *ShareService) Capability(ctx context.Context, actor model.Principal, goalID string) (model.Capability, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return model.CapabilityNone, err
	}
	return model.ResolveCapability(goal, actor), nil
}
