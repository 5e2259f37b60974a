// Package notify defines the notification service contract the rest of the
// app schedules reminders through, plus an in-process implementation. The
// platform scheduler on a device (APNs/FCM, expo, ...) is an external
// collaborator; everything here only needs its schedule/cancel surface.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownHandle is returned by Cancel when the handle does not reference a
// currently scheduled notification.
var ErrUnknownHandle = errors.New("unknown notification handle")

// Notification is the structured payload of a reminder. MedicationID travels
// with the notification so the client can answer the "did you take it?"
// prompt without parsing the body text back apart.
type Notification struct {
	MedicationID string `json:"medicationId"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}

// Notifier schedules and cancels reminder notifications. Handles are opaque;
// the only valid use of a handle is passing it back to Cancel.
type Notifier interface {
	// ScheduleDaily fires the notification every day at hour:minute local time.
	ScheduleDaily(ctx context.Context, hour, minute int, n Notification) (string, error)
	// ScheduleOnceAfter fires the notification once after the given delay.
	ScheduleOnceAfter(ctx context.Context, delay time.Duration, n Notification) (string, error)
	// Cancel revokes a scheduled notification by handle.
	Cancel(ctx context.Context, handle string) error
}
