package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/repository"
	"github.com/templui/ahorros/internal/validation"
)

type SettingsService struct {
	repo      repository.SettingsRepository
	hub       *live.Hub
	publisher live.Publisher

	conservative float64
	ambitious    float64
}

func NewSettingsService(repo repository.SettingsRepository, hub *live.Hub, publisher live.Publisher) *SettingsService {
	return &SettingsService{
		repo:         repo,
		hub:          hub,
		publisher:    publisher,
		conservative: model.DefaultConservativeMonthly,
		ambitious:    model.DefaultAmbitiousMonthly,
	}
}

// SetDefaults changes the monthly rates reported for users with no stored
// settings. Non-positive values are ignored.
func (s *SettingsService) SetDefaults(conservative, ambitious float64) {
	if conservative > 0 {
		s.conservative = conservative
	}
	if ambitious > 0 {
		s.ambitious = ambitious
	}
}

// Settings returns the user's settings, or the defaults if none are stored.
func (s *SettingsService) Settings(ctx context.Context, userID string) (model.Settings, error) {
	stored, err := s.repo.ByUserID(ctx, userID)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		defaults := model.DefaultSettings(userID)
		defaults.ConservativeMonthly = s.conservative
		defaults.AmbitiousMonthly = s.ambitious
		return defaults, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return stored.Normalized(), nil
}

func (s *SettingsService) Update(ctx context.Context, userID string, patch model.SettingsPatch) (model.Settings, error) {
	if patch.ConservativeMonthly != nil && validation.ValidateAmount(*patch.ConservativeMonthly) != nil {
		return model.Settings{}, ErrInvalidAmount
	}
	if patch.AmbitiousMonthly != nil && validation.ValidateAmount(*patch.AmbitiousMonthly) != nil {
		return model.Settings{}, ErrInvalidAmount
	}

	current, err := s.Settings(ctx, userID)
	if err != nil {
		return model.Settings{}, err
	}

	next := current.Apply(patch)
	err = s.repo.Upsert(ctx, &next)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.publisher.Publish(ctx, live.TopicSettings)
	return next, nil
}

func (s *SettingsService) Subscribe(ctx context.Context, userID string) *live.Subscription[model.Settings] {
	return live.Watch(ctx, s.hub, func(ctx context.Context) (model.Settings, error) {
		return s.Settings(ctx, userID)
	}, live.TopicSettings)
}
