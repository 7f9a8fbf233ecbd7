package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/config"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:               "development",
		AppURL:               "http://localhost:8090",
		Backend:              backend,
		DBDriver:             "sqlite",
		DBConnection:         "file:" + t.Name() + "?mode=memory&_pragma=foreign_keys(1)",
		BlobDriver:           config.BlobFile,
		BlobDir:              t.TempDir(),
		Locale:               "es-AR",
		Currency:             "USD",
		CurrencySymbol:       "US$",
		ConservativeFallback: 200,
		AmbitiousFallback:    500,
		LocalUserEmail:       "Local@Ahorros.test",
	}
}

func TestNewLocalBackendSeedsData(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, config.BackendLocal))
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.IsLocal())
	assert.Nil(t, a.DB)
	assert.Equal(t, "local@ahorros.test", a.LocalPrincipal.Email)

	p, err := a.SignInLocal(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.LocalPrincipal, p)

	goals, err := a.GoalService.Goals(ctx, p)
	require.NoError(t, err)
	assert.Len(t, goals, 3)

	summary, err := a.SummaryService.Summary(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 700.0, summary.History.TotalSaved)
}

func TestNewSQLBackend(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, config.BackendSQL))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.DB)
	assert.Nil(t, a.Notifier)

	p, err := a.SignInLocal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "local@ahorros.test", p.Email)

	again, err := a.SignInLocal(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, again)

	goals, err := a.GoalService.Goals(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestLocalPrincipalIsStable(t *testing.T) {
	assert.Equal(t, LocalPrincipal("a@x.com"), LocalPrincipal(" A@X.com "))
	assert.NotEqual(t, LocalPrincipal("a@x.com").ID, LocalPrincipal("b@x.com").ID)
}

func TestRunRelaysWritesFromAnotherProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t, config.BackendLocal)
	watcher, err := New(ctx, cfg)
	require.NoError(t, err)
	defer watcher.Close()

	p, err := watcher.SignInLocal(ctx)
	require.NoError(t, err)
	sub := watcher.ContributionService.Subscribe(ctx, p)
	defer sub.Close()
	initial := <-sub.C()
	require.Len(t, initial, 2)

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- watcher.run(ctx, ready) }()
	<-ready

	writer, err := New(ctx, cfg)
	require.NoError(t, err)
	defer writer.Close()
	_, err = writer.ContributionService.Create(ctx, p, "2026-03-01", 5000, "Bono")
	require.NoError(t, err)

	select {
	case got := <-sub.C():
		assert.Len(t, got, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("write from the other app was not seen")
	}

	cancel()
	assert.NoError(t, <-done)
}
