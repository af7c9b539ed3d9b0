package noop

import (
	"context"

	"hermes/pkg/errors"
)

// Tracker discards all reports. Used when no error tracking DSN is set.
type Tracker struct{}

func New() *Tracker { return &Tracker{} }

func (t *Tracker) CaptureError(context.Context, error, map[string]string) error { return nil }

func (t *Tracker) CaptureMessage(context.Context, string, errors.Level, map[string]string) error {
	return nil
}

func (t *Tracker) SetUser(context.Context, string, string, string) {}

func (t *Tracker) Flush(context.Context) error { return nil }
