package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalScheduler is an in-process Notifier backed by timer goroutines. Daily
// notifications re-arm themselves after each fire; one-shots drop their
// handle once fired, so cancelling an already-fired one-shot reports
// ErrUnknownHandle.
type LocalScheduler struct {
	mu       sync.Mutex
	delivery Delivery
	logger   *zap.Logger
	timers   map[string]*time.Timer
	now      func() time.Time
}

func NewLocalScheduler(delivery Delivery, logger *zap.Logger) *LocalScheduler {
	return &LocalScheduler{
		delivery: delivery,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		now:      time.Now,
	}
}

func (s *LocalScheduler) ScheduleDaily(ctx context.Context, hour, minute int, n Notification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid time of day %02d:%02d", hour, minute)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := uuid.NewString()
	s.armDailyLocked(handle, hour, minute, n)
	s.logger.Debug("scheduled daily notification",
		zap.String("handle", handle),
		zap.Int("hour", hour),
		zap.Int("minute", minute),
	)
	return handle, nil
}

func (s *LocalScheduler) ScheduleOnceAfter(ctx context.Context, delay time.Duration, n Notification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if delay < 0 {
		return "", fmt.Errorf("invalid delay %s", delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := uuid.NewString()
	s.timers[handle] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, active := s.timers[handle]
		delete(s.timers, handle)
		s.mu.Unlock()
		if active {
			s.delivery.Deliver(n)
		}
	})
	s.logger.Debug("scheduled one-shot notification",
		zap.String("handle", handle),
		zap.Duration("delay", delay),
	)
	return handle, nil
}

func (s *LocalScheduler) Cancel(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[handle]
	if !ok {
		return ErrUnknownHandle
	}
	timer.Stop()
	delete(s.timers, handle)
	return nil
}

// Close cancels every outstanding notification.
func (s *LocalScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
	}
}

// armDailyLocked arms the timer for the next hour:minute occurrence and
// re-arms it under the same handle after each fire. Caller holds s.mu.
func (s *LocalScheduler) armDailyLocked(handle string, hour, minute int, n Notification) {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	s.timers[handle] = time.AfterFunc(next.Sub(now), func() {
		s.mu.Lock()
		_, active := s.timers[handle]
		if active {
			s.armDailyLocked(handle, hour, minute, n)
		}
		s.mu.Unlock()
		if active {
			s.delivery.Deliver(n)
		}
	})
}
