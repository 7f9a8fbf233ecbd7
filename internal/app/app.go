package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/ahorros/internal/config"
	"github.com/templui/ahorros/internal/db"
	"github.com/templui/ahorros/internal/format"
	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/repository"
	"github.com/templui/ahorros/internal/service"
	"github.com/templui/ahorros/internal/session"
	"github.com/templui/ahorros/internal/storage"
)

type App struct {
	Cfg       *config.Config
	DB        *sqlx.DB
	Store     storage.Store
	Hub       *live.Hub
	Notifier  *live.PGNotifier
	Formatter *format.Formatter

	AuthService         *service.AuthService
	EmailService        *service.EmailService
	GoalService         *service.GoalService
	ContributionService *service.ContributionService
	ShareService        *service.ShareService
	SettingsService     *service.SettingsService
	SummaryService      *service.SummaryService

	// LocalPrincipal is the single user of the local backend
	LocalPrincipal model.Principal

	// feeds maps local blob keys to the repository holding them and the
	// topics its changes affect.
	feeds map[string]localFeed
}

type localFeed struct {
	repo   repository.Reloader
	topics []live.Topic
}

type repositories struct {
	users         repository.UserRepository
	goals         repository.GoalRepository
	contributions repository.ContributionRepository
	settings      repository.SettingsRepository
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Cfg:       cfg,
		Hub:       live.NewHub(),
		Formatter: format.New(cfg.Locale, cfg.Currency, cfg.CurrencySymbol),
	}
	var publisher live.Publisher = a.Hub

	var (
		repos repositories
		err   error
	)
	switch cfg.Backend {
	case config.BackendLocal:
		repos, err = a.openLocal(ctx)
	default:
		repos, err = a.openSQL(ctx)
		if err == nil && cfg.DBDriver == db.DriverPostgres {
			a.Notifier = live.NewPGNotifier(a.DB, cfg.DBConnection, a.Hub)
			publisher = a.Notifier
		}
	}
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	// Services
	a.AuthService = service.NewAuthService(repos.users, cfg.DevSecret(), cfg.JWTExpiry, cfg.IsProduction())
	a.GoalService = service.NewGoalService(repos.goals, a.Hub, publisher)
	a.ContributionService = service.NewContributionService(repos.contributions, a.Hub, publisher)
	a.EmailService = service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL, cfg.AppName, cfg.IsDevelopment())
	a.ShareService = service.NewShareService(repos.goals, publisher, a.EmailService)
	a.SettingsService = service.NewSettingsService(repos.settings, a.Hub, publisher)
	a.SettingsService.SetDefaults(cfg.ConservativeFallback, cfg.AmbitiousFallback)
	a.SummaryService = service.NewSummaryService(a.GoalService, a.ContributionService, a.SettingsService, a.Hub, a.Formatter)

	return a, nil
}

func (a *App) openSQL(ctx context.Context) (repositories, error) {
	database, err := db.Init(ctx, a.Cfg.DBDriver, a.Cfg.DBConnection)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = database

	err = db.RunMigrations(ctx, database.DB, a.Cfg.DBDriver)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories{
		users:         repository.NewUserRepository(database),
		goals:         repository.NewGoalRepository(database),
		contributions: repository.NewContributionRepository(database),
		settings:      repository.NewSettingsRepository(database),
	}, nil
}

func (a *App) openLocal(ctx context.Context) (repositories, error) {
	store, err := storage.New(ctx, a.Cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Store = store
	a.LocalPrincipal = LocalPrincipal(a.Cfg.LocalUserEmail)

	seeded, err := repository.SeedLocal(ctx, store, a.LocalPrincipal)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to seed local data: %w", err)
	}
	if seeded {
		slog.Info("local data seeded", "user_id", a.LocalPrincipal.ID)
	}

	var repos repositories
	repos.users, err = repository.NewLocalUserRepository(ctx, store)
	if err != nil {
		return repositories{}, err
	}
	repos.goals, err = repository.NewLocalGoalRepository(ctx, store, a.LocalPrincipal)
	if err != nil {
		return repositories{}, err
	}
	repos.contributions, err = repository.NewLocalContributionRepository(ctx, store, a.LocalPrincipal)
	if err != nil {
		return repositories{}, err
	}
	repos.settings, err = repository.NewLocalSettingsRepository(ctx, store)
	if err != nil {
		return repositories{}, err
	}

	a.feeds = make(map[string]localFeed)
	feed := func(key string, repo any, topics ...live.Topic) {
		if r, ok := repo.(repository.Reloader); ok {
			a.feeds[key] = localFeed{repo: r, topics: topics}
		}
	}
	feed(repository.LocalGoalsKey, repos.goals, live.TopicGoals)
	feed(repository.LocalContributionsKey, repos.contributions, live.TopicContributions)
	feed(repository.LocalSettingsKey, repos.settings, live.TopicSettings)
	return repos, nil
}

// LocalPrincipal derives a stable identity from email so local data stays
// owned by the same id across runs.
func LocalPrincipal(email string) model.Principal {
	email = model.NormalizeEmail(email)
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("ahorros:local:"+email))
	return model.Principal{ID: id.String(), Email: email}
}

// IsLocal reports whether the app runs on the single-user local backend.
func (a *App) IsLocal() bool {
	return a.Cfg.Backend == config.BackendLocal
}

// SignInLocal returns the principal for command line use: the local user on
// the local backend, or the LOCAL_USER_EMAIL account on the sql backend.
func (a *App) SignInLocal(ctx context.Context) (model.Principal, error) {
	if a.IsLocal() {
		return a.LocalPrincipal, nil
	}
	user, err := a.AuthService.DevSignIn(ctx, a.Cfg.LocalUserEmail)
	if err != nil {
		return model.Principal{}, err
	}
	return user.Principal(), nil
}

func (a *App) Services() session.Services {
	return session.Services{
		Goals:         a.GoalService,
		Contributions: a.ContributionService,
		Shares:        a.ShareService,
		Settings:      a.SettingsService,
		Summary:       a.SummaryService,
	}
}

// Run blocks until ctx is done, relaying changes made by other processes to
// the hub: postgres notifications on the sql backend, blob writes on the
// local one.
func (a *App) Run(ctx context.Context) error {
	return a.run(ctx, nil)
}

func (a *App) run(ctx context.Context, ready chan<- struct{}) error {
	if a.Notifier != nil {
		if ready != nil {
			close(ready)
		}
		return a.Notifier.Run(ctx)
	}

	watcher, ok := a.Store.(storage.Watcher)
	if !ok || len(a.feeds) == 0 {
		if ready != nil {
			close(ready)
		}
		<-ctx.Done()
		return nil
	}

	started := make(chan struct{})
	go func() {
		select {
		case <-started:
			// Blobs written before the watch began are picked up here.
			for key := range a.feeds {
				a.reload(ctx, key)
			}
		case <-ctx.Done():
		}
		if ready != nil {
			close(ready)
		}
	}()
	return watcher.Watch(ctx, started, func(key string) {
		a.reload(ctx, key)
	})
}

func (a *App) reload(ctx context.Context, key string) {
	feed, ok := a.feeds[key]
	if !ok {
		return
	}
	changed, err := feed.repo.Reload(ctx)
	if err != nil {
		slog.Warn("failed to reload local data", "key", key, "error", err)
		return
	}
	if changed {
		slog.Debug("local data changed", "key", key)
		a.Hub.Publish(ctx, feed.topics...)
	}
}

func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
