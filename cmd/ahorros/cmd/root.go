package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/templui/ahorros/internal/app"
	"github.com/templui/ahorros/internal/config"
	"github.com/templui/ahorros/internal/format"
	"github.com/templui/ahorros/internal/logger"
	"github.com/templui/ahorros/internal/session"
)

// initLogs guards the process-wide logger against concurrent invocations.
var initLogs sync.Once

// env is the state shared by every subcommand of one invocation.
type env struct {
	backend string
	blobDir string
	email   string
	verbose bool

	app     *app.App
	manager *session.Manager
	session *session.Session
}

func (e *env) open(ctx context.Context) error {
	config.LoadDotEnv()
	cfg := config.FromEnv()
	if os.Getenv("BACKEND") == "" {
		cfg.Backend = config.BackendLocal
	}
	if e.backend != "" {
		cfg.Backend = e.backend
	}
	if e.blobDir != "" {
		cfg.BlobDir = e.blobDir
	}
	if e.email != "" {
		cfg.LocalUserEmail = e.email
	}
	err := cfg.Validate()
	if err != nil {
		return err
	}

	initLogs.Do(func() {
		var logs io.Writer = io.Discard
		if e.verbose {
			logs = os.Stderr
		}
		logger.InitWriter(logs, e.verbose, cfg.SentryDSN)
	})

	e.app, err = app.New(ctx, cfg)
	if err != nil {
		return err
	}

	principal, err := e.app.SignInLocal(ctx)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	e.manager = session.NewManager(e.app.Services())
	e.session, err = e.manager.SignIn(ctx, principal)
	return err
}

func (e *env) close() error {
	if e.manager != nil {
		e.manager.SignOut()
	}
	if e.app != nil {
		return e.app.Close()
	}
	return nil
}

func (e *env) formatter() *format.Formatter {
	return e.app.Formatter
}

// newRootCmd builds the command tree. Each call returns independent state.
func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	root := &cobra.Command{
		Use:           "ahorros",
		Short:         "Savings goals and projections",
		Long:          "Track savings goals, record contributions and see how long each goal will take.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, e)
		},
	}

	root.PersistentFlags().StringVar(&e.backend, "backend", "", "Persistence backend: local or sql (default from BACKEND)")
	root.PersistentFlags().StringVar(&e.blobDir, "dir", "", "Directory for local data (default from BLOB_DIR)")
	root.PersistentFlags().StringVar(&e.email, "email", "", "Identity to act as (default from LOCAL_USER_EMAIL)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(goalsCmd(e))
	root.AddCommand(contribCmd(e))
	root.AddCommand(shareCmd(e))
	root.AddCommand(summaryCmd(e))
	root.AddCommand(settingsCmd(e))
	root.AddCommand(watchCmd(e))

	return root, e
}

// run executes one invocation and releases the app whether or not the
// command succeeded.
func run(ctx context.Context, args []string, out io.Writer) error {
	root, e := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	closeErr := e.close()
	if err != nil {
		return err
	}
	return closeErr
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+describe(err))
		os.Exit(1)
	}
}

func describe(err error) string {
	if errors.Is(err, session.ErrNoSession) {
		return "not signed in"
	}
	return err.Error()
}
