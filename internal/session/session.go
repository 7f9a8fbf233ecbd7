// Package session binds a signed-in principal to the store services and
// tracks the live subscriptions opened on its behalf.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/service"
)

var ErrNoSession = errors.New("not signed in")

type Services struct {
	Goals         *service.GoalService
	Contributions *service.ContributionService
	Shares        *service.ShareService
	Settings      *service.SettingsService
	Summary       *service.SummaryService
}

type Session struct {
	principal model.Principal
	services  Services

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	nextID  int
	closers map[int]func()
}

// New opens a session for principal. Subscriptions opened through it stop
// when ctx is cancelled or the session is closed.
func New(ctx context.Context, principal model.Principal, services Services) *Session {
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		principal: principal,
		services:  services,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Session) Principal() model.Principal {
	return s.principal
}

// Close stops every subscription opened through the session. Later calls on
// the session fail with ErrNoSession.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	closers := make([]func(), 0, len(s.closers))
	for _, c := range s.closers {
		closers = append(closers, c)
	}
	s.closers = nil
	s.mu.Unlock()

	s.cancel()
	for _, c := range closers {
		c()
	}
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) check() error {
	if s == nil || s.Closed() {
		return ErrNoSession
	}
	return nil
}

// track registers closer until done is closed.
func (s *Session) track(closer func(), done <-chan struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNoSession
	}
	if s.closers == nil {
		s.closers = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.closers[id] = closer

	go func() {
		<-done
		s.mu.Lock()
		delete(s.closers, id)
		s.mu.Unlock()
	}()
	return nil
}

// tracked returns the number of live subscriptions.
func (s *Session) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.closers)
}

func subscribe[T any](s *Session, open func(context.Context) *live.Subscription[T]) (*live.Subscription[T], error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sub := open(s.ctx)
	if err := s.track(sub.Close, sub.Done()); err != nil {
		sub.Close()
		return nil, err
	}
	return sub, nil
}

func (s *Session) Goals() (*live.Subscription[[]*model.Goal], error) {
	return subscribe(s, func(ctx context.Context) *live.Subscription[[]*model.Goal] {
		return s.services.Goals.Subscribe(ctx, s.principal)
	})
}

func (s *Session) Contributions() (*live.Subscription[[]*model.Contribution], error) {
	return subscribe(s, func(ctx context.Context) *live.Subscription[[]*model.Contribution] {
		return s.services.Contributions.Subscribe(ctx, s.principal)
	})
}

func (s *Session) Summary() (*live.Subscription[*service.Summary], error) {
	return subscribe(s, func(ctx context.Context) *live.Subscription[*service.Summary] {
		return s.services.Summary.Subscribe(ctx, s.principal)
	})
}

func (s *Session) ListGoals(ctx context.Context) ([]*model.Goal, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.services.Goals.Goals(ctx, s.principal)
}

func (s *Session) CreateGoal(ctx context.Context, name string, target float64) (*model.Goal, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.services.Goals.Create(ctx, s.principal, name, target)
}

func (s *Session) UpdateGoal(ctx context.Context, goalID string, patch model.GoalPatch) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.services.Goals.Update(ctx, s.principal, goalID, patch)
}

func (s *Session) DeleteGoal(ctx context.Context, goalID string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.services.Goals.Delete(ctx, s.principal, goalID)
}

func (s *Session) ShareGoal(ctx context.Context, goalID, email string, canEdit bool) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.services.Shares.Grant(ctx, s.principal, goalID, email, canEdit)
}

func (s *Session) RevokeShare(ctx context.Context, goalID, email string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.services.Shares.Revoke(ctx, s.principal, goalID, email)
}

func (s *Session) ListContributions(ctx context.Context) ([]*model.Contribution, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.services.Contributions.Contributions(ctx, s.principal)
}

func (s *Session) AddContribution(ctx context.Context, date string, amount float64, note string) (*model.Contribution, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.services.Contributions.Create(ctx, s.principal, date, amount, note)
}

func (s *Session) UpdateContribution(ctx context.Context, id string, patch model.ContributionPatch) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.services.Contributions.Update(ctx, s.principal, id, patch)
}

func (s *Session) DeleteContribution(ctx context.Context, id string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.services.Contributions.Delete(ctx, s.principal, id)
}

func (s *Session) Settings(ctx context.Context) (model.Settings, error) {
	if err := s.check(); err != nil {
		return model.Settings{}, err
	}
	return s.services.Settings.Settings(ctx, s.principal.ID)
}

func (s *Session) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	if err := s.check(); err != nil {
		return model.Settings{}, err
	}
	return s.services.Settings.Update(ctx, s.principal.ID, patch)
}

func (s *Session) CurrentSummary(ctx context.Context) (*service.Summary, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.services.Summary.Summary(ctx, s.principal)
}
