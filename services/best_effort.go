package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

// BestEffort runs side effects whose failure must never reach the caller.
// Failures are logged at warn level and dropped.
type BestEffort struct {
	Log logrus.FieldLogger
}

func (b BestEffort) Run(ctx context.Context, op string, fields logrus.Fields, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil && b.Log != nil {
		b.Log.WithFields(fields).WithError(err).WithField("op", op).Warn("best-effort operation failed")
	}
}
