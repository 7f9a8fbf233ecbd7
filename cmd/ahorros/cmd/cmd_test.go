package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/service"
)

func cliDir(t *testing.T) string {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("BACKEND", "local")
	t.Setenv("BLOB_DRIVER", "file")
	t.Setenv("SENTRY_DSN", "")
	return t.TempDir()
}

func setupCLI(t *testing.T) func(args ...string) (string, error) {
	t.Helper()
	dir := cliDir(t)
	return cliIn(dir)
}

func cliIn(dir string) func(args ...string) (string, error) {
	return func(args ...string) (string, error) {
		var out bytes.Buffer
		args = append([]string{"--dir", dir}, args...)
		err := run(context.Background(), args, &out)
		return out.String(), err
	}
}

func TestSummaryOnSeededData(t *testing.T) {
	ahorros := setupCLI(t)

	out, err := ahorros("summary")
	require.NoError(t, err)
	assert.Contains(t, out, "US$ 700")
	assert.Contains(t, out, "Viaje a Italia")
	assert.Contains(t, out, "Comprar Casa")

	root, err := ahorros()
	require.NoError(t, err)
	assert.Equal(t, out, root)
}

func TestGoalLifecycle(t *testing.T) {
	ahorros := setupCLI(t)

	out, err := ahorros("goals", "add", "Bicicleta", "--target", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, "Created \"Bicicleta\"")

	out, err = ahorros("goals", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Bicicleta")
	assert.Contains(t, out, "owner")

	_, err = ahorros("goals", "edit", "italia", "--name", "Roma")
	require.NoError(t, err)

	out, err = ahorros("goals")
	require.NoError(t, err)
	assert.Contains(t, out, "Roma")
	assert.NotContains(t, out, "Viaje a Italia")

	_, err = ahorros("goals", "rm", "nueva-york")
	require.NoError(t, err)
	_, err = ahorros("goals", "rm", "nueva-york")
	require.NoError(t, err)

	out, err = ahorros("goals", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Nueva York")
}

func TestGoalValidation(t *testing.T) {
	ahorros := setupCLI(t)

	_, err := ahorros("goals", "add", "  ", "--target", "100")
	assert.ErrorIs(t, err, service.ErrInvalidName)

	_, err = ahorros("goals", "add", "Moto", "--target", "0")
	assert.ErrorIs(t, err, service.ErrInvalidTarget)

	_, err = ahorros("goals", "edit", "italia")
	assert.ErrorIs(t, err, service.ErrEmptyPatch)
}

func TestContributionsUpdateSummary(t *testing.T) {
	ahorros := setupCLI(t)

	out, err := ahorros("contrib", "add", "100", "--date", "2026-03-01", "--note", "Marzo")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")

	out, err = ahorros("contrib", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Marzo")
	assert.Contains(t, out, "Enero")

	out, err = ahorros("summary")
	require.NoError(t, err)
	assert.Contains(t, out, "US$ 800")

	_, err = ahorros("contrib", "edit", "c1", "--amount", "200")
	require.NoError(t, err)
	_, err = ahorros("contrib", "rm", "c2")
	require.NoError(t, err)

	out, err = ahorros("summary")
	require.NoError(t, err)
	assert.Contains(t, out, "US$ 300")

	_, err = ahorros("contrib", "add", "--", "-5")
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestSettings(t *testing.T) {
	ahorros := setupCLI(t)

	out, err := ahorros("settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Conservative monthly")

	out, err = ahorros("settings", "--conservative", "350")
	require.NoError(t, err)
	assert.Contains(t, out, "US$ 350")

	out, err = ahorros("settings")
	require.NoError(t, err)
	assert.Contains(t, out, "US$ 350")

	_, err = ahorros("settings", "--ambitious=-1")
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestShare(t *testing.T) {
	ahorros := setupCLI(t)

	out, err := ahorros("share", "grant", "italia", "Ana@Example.com", "--edit")
	require.NoError(t, err)
	assert.Contains(t, out, "can now edit")

	_, err = ahorros("share", "revoke", "italia", "ana@example.com")
	require.NoError(t, err)

	_, err = ahorros("share", "grant", "italia", "not-an-email")
	assert.ErrorIs(t, err, service.ErrInvalidEmail)
}

// syncBuffer is written by the watch command while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchSeesWritesFromAnotherInvocation(t *testing.T) {
	dir := cliDir(t)
	ahorros := cliIn(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"--dir", dir, "watch"}, out)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "US$ 700")
	}, 5*time.Second, 10*time.Millisecond)

	written, err := ahorros("contrib", "add", "5000")
	require.NoError(t, err)
	assert.Contains(t, written, "Added")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "US$ 5.700")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("US$ 1,250.50")
	require.NoError(t, err)
	assert.Equal(t, 1250.5, v)

	v, err = parseAmount("42")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	_, err = parseAmount("abc")
	assert.Error(t, err)
}
