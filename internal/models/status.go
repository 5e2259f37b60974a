package models

import "time"

// DoseStatus represents one day's outcome for a medication
type DoseStatus string

const (
	StatusNotYet   DoseStatus = "not yet"
	StatusTaken    DoseStatus = "taken"
	StatusNotTaken DoseStatus = "not taken"
)

// DateLayout is the calendar-date format used in StatusRecord.Date.
const DateLayout = "2006-01-02"

// FormatDate renders a time as a local calendar date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StatusRecord records whether one medication was taken on one calendar day.
// At most one record exists per (MedicationID, Date) pair; writers replace
// rather than append.
type StatusRecord struct {
	MedicationID string     `json:"medicationId"`
	Date         string     `json:"date"`
	Status       DoseStatus `json:"status"`
}
