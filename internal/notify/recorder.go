package notify

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DailyCall captures one ScheduleDaily invocation on a Recorder.
type DailyCall struct {
	Handle       string
	Hour, Minute int
	Notification Notification
}

// OnceCall captures one ScheduleOnceAfter invocation on a Recorder.
type OnceCall struct {
	Handle       string
	Delay        time.Duration
	Notification Notification
}

// Recorder is a Notifier double for tests: it records calls instead of
// arming timers. Err, when set, is returned by every scheduling call.
type Recorder struct {
	mu        sync.Mutex
	seq       int
	Daily     []DailyCall
	Once      []OnceCall
	Cancelled []string
	Err       error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ScheduleDaily(ctx context.Context, hour, minute int, n Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	handle := r.nextHandle()
	r.Daily = append(r.Daily, DailyCall{Handle: handle, Hour: hour, Minute: minute, Notification: n})
	return handle, nil
}

func (r *Recorder) ScheduleOnceAfter(ctx context.Context, delay time.Duration, n Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	handle := r.nextHandle()
	r.Once = append(r.Once, OnceCall{Handle: handle, Delay: delay, Notification: n})
	return handle, nil
}

func (r *Recorder) Cancel(ctx context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cancelled = append(r.Cancelled, handle)
	return nil
}

func (r *Recorder) nextHandle() string {
	r.seq++
	return fmt.Sprintf("handle-%d", r.seq)
}
