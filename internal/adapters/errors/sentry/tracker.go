package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"hermes/pkg/errors"
)

const flushTimeout = 2 * time.Second

// Tracker reports errors to Sentry, implementing errors.Tracker.
type Tracker struct{}

// Config carries Sentry initialization settings.
type Config struct {
	DSN         string
	Environment string
	SampleRate  float64
	Release     string
}

// New initializes the Sentry SDK and returns a tracker over it.
func New(cfg Config) (*Tracker, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		SampleRate:  cfg.SampleRate,
		Release:     cfg.Release,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize sentry")
	}
	return &Tracker{}, nil
}

// CaptureError reports an error with structured tags.
func (t *Tracker) CaptureError(_ context.Context, err error, tags map[string]string) error {
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
	return nil
}

// CaptureMessage reports a plain message at the given level.
func (t *Tracker) CaptureMessage(_ context.Context, message string, level errors.Level, tags map[string]string) error {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(level))
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureMessage(message)
	})
	return nil
}

// SetUser attaches user identity to subsequent reports.
func (t *Tracker) SetUser(_ context.Context, userID, email, username string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: userID, Email: email, Username: username})
	})
}

// Flush drains pending events before shutdown.
func (t *Tracker) Flush(_ context.Context) error {
	sentry.Flush(flushTimeout)
	return nil
}

func sentryLevel(level errors.Level) sentry.Level {
	switch level {
	case errors.LevelDebug:
		return sentry.LevelDebug
	case errors.LevelInfo:
		return sentry.LevelInfo
	case errors.LevelWarning:
		return sentry.LevelWarning
	case errors.LevelFatal:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}
