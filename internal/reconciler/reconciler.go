// Package reconciler runs the two periodic duties of the reminder core: the
// missed-dose scan and the daily status backfill. Both are best-effort per
// medication; one failing item is logged and never aborts the rest of the
// pass.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medic-server/internal/models"
	"medic-server/internal/notify"
	"medic-server/internal/repository"
)

// Reconciler computes missed doses and backfills today's status rows from
// the medication list.
//
// Missed-dose alerting is status-driven: a medication alerts while its
// scheduled time is past and no "taken" status exists for today. The alerted
// map suppresses repeat alerts within one process run; after a restart the
// scan may alert again for the same day, same as the original app between
// scan invocations.
type Reconciler struct {
	medications *repository.MedicationRepository
	statuses    *repository.StatusRepository
	notifier    notify.Notifier
	logger      *zap.Logger
	now         func() time.Time

	alertedDate string
	alerted     map[string]bool
}

func New(medications *repository.MedicationRepository, statuses *repository.StatusRepository, notifier notify.Notifier, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		medications: medications,
		statuses:    statuses,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		alerted:     make(map[string]bool),
	}
}

// CheckMissedDoses scans every medication whose scheduled time of day has
// passed and emits a missed-dose notification unless a "taken" status is
// recorded for today. Returns an error only when the medication list itself
// cannot be read.
func (r *Reconciler) CheckMissedDoses(ctx context.Context) error {
	meds, err := r.medications.List()
	if err != nil {
		return fmt.Errorf("load medications: %w", err)
	}

	now := r.now()
	today := models.FormatDate(now)
	r.rollover(today)

	for _, med := range meds {
		if !scheduledBefore(med, now) {
			continue
		}
		if r.alerted[med.ID] {
			continue
		}
		if err := r.alertMissedDose(ctx, med, today); err != nil {
			r.logger.Error("missed-dose check failed",
				zap.String("medicationId", med.ID),
				zap.String("name", med.Name),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (r *Reconciler) alertMissedDose(ctx context.Context, med models.Medication, today string) error {
	record, err := r.statuses.Get(med.ID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("load status: %w", err)
	}
	if err == nil && record.Status == models.StatusTaken {
		return nil
	}

	// Same one-shot shape the mobile app used: fire almost immediately.
	_, err = r.notifier.ScheduleOnceAfter(ctx, time.Second, notify.Notification{
		MedicationID: med.ID,
		Title:        "💊 Missed Dose",
		Body:         fmt.Sprintf("You missed your dose of %s", med.Name),
	})
	if err != nil {
		return fmt.Errorf("schedule alert: %w", err)
	}

	r.alerted[med.ID] = true
	r.logger.Info("missed dose alert sent",
		zap.String("medicationId", med.ID),
		zap.String("name", med.Name),
	)
	return nil
}

// BackfillStatuses gives every medication a "not yet" row for today so the
// client can distinguish "no data yet" from "explicitly not taken". Existing
// rows for today are never overwritten.
func (r *Reconciler) BackfillStatuses(ctx context.Context) error {
	meds, err := r.medications.List()
	if err != nil {
		return fmt.Errorf("load medications: %w", err)
	}

	today := models.FormatDate(r.now())
	if err := r.statuses.ResetForToday(meds, today); err != nil {
		return fmt.Errorf("backfill statuses: %w", err)
	}
	return nil
}

// rollover resets the per-day alert markers when the date changes.
func (r *Reconciler) rollover(today string) {
	if r.alertedDate == today {
		return
	}
	r.alertedDate = today
	r.alerted = make(map[string]bool)
}

// scheduledBefore reports whether the medication's wall-clock slot is earlier
// than now's time of day. The comparison is date-naive, like the source app:
// only hour and minute take part.
func scheduledBefore(med models.Medication, now time.Time) bool {
	slot := time.Date(now.Year(), now.Month(), now.Day(), med.Hour, med.Minute, 0, 0, now.Location())
	return now.After(slot)
}
