package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// sideEffects runs the best-effort work that follows a successful write.
// Failures are logged and never change the outcome of the use case.
type sideEffects struct {
	index    UserIndex
	notifier UserNotifier
	logger   *logrus.Logger
}

// sideEffectTimeout bounds each best-effort call once detached from the request.
const sideEffectTimeout = 5 * time.Second

// detach keeps request values (ids, trace data) but not the request's
// cancellation, so a client hanging up after the write does not skip the work.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
}

func (s sideEffects) warn(err error, userID int64, msg string) {
	if s.logger != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}

func (s sideEffects) indexed(ctx context.Context, u UserResponse) {
	ctx, cancel := detach(ctx)
	defer cancel()
	if err := s.index.Index(ctx, u); err != nil {
		s.warn(err, u.ID, "index user failed")
	}
}

func (s sideEffects) removed(ctx context.Context, id int64) {
	ctx, cancel := detach(ctx)
	defer cancel()
	if err := s.index.Remove(ctx, id); err != nil {
		s.warn(err, id, "remove user from index failed")
	}
}

func (s sideEffects) created(ctx context.Context, u UserResponse) {
	s.indexed(ctx, u)

	ctx, cancel := detach(ctx)
	defer cancel()
	if err := s.notifier.UserCreated(ctx, u); err != nil {
		s.warn(err, u.ID, "enqueue welcome email failed")
	}
}
