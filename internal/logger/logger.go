package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init sets the global logger. Development logs text at debug level,
// production logs JSON at info level. With a Sentry DSN, errors are also
// sent to Sentry.
func Init(isDev bool, sentryDSN string) {
	InitWriter(os.Stdout, isDev, sentryDSN)
}

// InitWriter is Init with an explicit output, used by the CLI to keep logs
// off stdout.
func InitWriter(w io.Writer, isDev bool, sentryDSN string) {
	level := slog.LevelInfo
	if isDev {
		level = slog.LevelDebug
	}

	var handlers []slog.Handler
	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)

	if sentryDSN != "" && len(handlers) == 1 {
		Log.Warn("sentry disabled, failed to initialize client")
	}
}
