package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/repository"
	"github.com/templui/ahorros/internal/validation"
)

type ContributionService struct {
	repo      repository.ContributionRepository
	hub       *live.Hub
	publisher live.Publisher
	today     func() string
}

func NewContributionService(repo repository.ContributionRepository, hub *live.Hub, publisher live.Publisher) *ContributionService {
	return &ContributionService{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
		today:     func() string { return time.Now().Format(model.DateLayout) },
	}
}

// Create records a contribution for actor. A blank date means today and a
// blank note gets the default label.
func (s *ContributionService) Create(ctx context.Context, actor model.Principal, date string, amount float64, note string) (*model.Contribution, error) {
	if validation.ValidateAmount(amount) != nil {
		return nil, ErrInvalidAmount
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = s.today()
	}
	note = strings.TrimSpace(note)
	if note == "" {
		note = model.DefaultContributionNote
	}

	c := &model.Contribution{
		ID:      uuid.New().String(),
		Date:    date,
		Amount:  amount,
		Note:    note,
		OwnerID: actor.ID,
	}

	err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}
	s.publisher.Publish(ctx, live.TopicContributions)

	slog.Info("contribution created", "contribution_id", c.ID, "user_id", actor.ID, "amount", amount)
	return c, nil
}

// Contributions returns actor's contributions, newest first.
func (s *ContributionService) Contributions(ctx context.Context, actor model.Principal) ([]*model.Contribution, error) {
	return s.list(actor)(ctx)
}

func (s *ContributionService) Subscribe(ctx context.Context, actor model.Principal) *live.Subscription[[]*model.Contribution] {
	return live.Watch(ctx, s.hub, s.list(actor), live.TopicContributions)
}

// Update applies patch with the same defaults as Create: a blank date means
// today and a blank note gets the default label.
func (s *ContributionService) Update(ctx context.Context, actor model.Principal, id string, patch model.ContributionPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}
	if patch.Amount != nil && validation.ValidateAmount(*patch.Amount) != nil {
		return ErrInvalidAmount
	}
	if patch.Date != nil {
		date := strings.TrimSpace(*patch.Date)
		if date == "" {
			date = s.today()
		}
		patch.Date = &date
	}
	if patch.Note != nil {
		note := strings.TrimSpace(*patch.Note)
		if note == "" {
			note = model.DefaultContributionNote
		}
		patch.Note = &note
	}

	err := s.repo.Update(ctx, actor, id, patch)
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, live.TopicContributions)
	return nil
}

func (s *ContributionService) Delete(ctx context.Context, actor model.Principal, id string) error {
	err := s.repo.Delete(ctx, actor, id)
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, live.TopicContributions)
	return nil
}

func (s *ContributionService) list(actor model.Principal) func(context.Context) ([]*model.Contribution, error) {
	return func(ctx context.Context) ([]*model.Contribution, error) {
		list, err := s.repo.OwnedBy(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributions: %w", err)
		}
		return list, nil
	}
}
