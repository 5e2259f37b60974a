package repository

import (
	"sync"

	"medic-server/internal/models"
	"medic-server/internal/store"
)

// StatusRepository persists per-medication-per-day dose outcomes. The
// collection holds at most one record per (medicationId, date) pair; Upsert
// replaces in place rather than appending duplicates.
type StatusRepository struct {
	mu    sync.Mutex
	store *store.Store
}

func NewStatusRepository(st *store.Store) *StatusRepository {
	return &StatusRepository{store: st}
}

// ListAll returns every status record, unordered.
func (r *StatusRepository) ListAll() ([]models.StatusRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return store.Load[models.StatusRecord](r.store, store.SlotStatuses)
}

// Get returns the record for (medicationID, date) or ErrNotFound.
func (r *StatusRepository) Get(medicationID, date string) (models.StatusRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := store.Load[models.StatusRecord](r.store, store.SlotStatuses)
	if err != nil {
		return models.StatusRecord{}, err
	}
	for _, record := range records {
		if record.MedicationID == medicationID && record.Date == date {
			return record, nil
		}
	}
	return models.StatusRecord{}, ErrNotFound
}

// Upsert stores the record, replacing any existing record for the same
// (medicationId, date) pair.
func (r *StatusRepository) Upsert(record models.StatusRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := store.Load[models.StatusRecord](r.store, store.SlotStatuses)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range records {
		if existing.MedicationID == record.MedicationID && existing.Date == record.Date {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	return store.Save(r.store, store.SlotStatuses, records)
}

// DeleteByMedication removes every record for the medication. Removing
// nothing is not an error; this is bulk cleanup for cascade delete, not an
// addressed lookup.
func (r *StatusRepository) DeleteByMedication(medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := store.Load[models.StatusRecord](r.store, store.SlotStatuses)
	if err != nil {
		return err
	}

	remaining := make([]models.StatusRecord, 0, len(records))
	for _, record := range records {
		if record.MedicationID == medicationID {
			continue
		}
		remaining = append(remaining, record)
	}
	if len(remaining) == len(records) {
		return nil
	}

	return store.Save(r.store, store.SlotStatuses, remaining)
}

// ResetForToday backfills a "not yet" record for every medication that has no
// record for the given date yet. Records already present for that date are
// left untouched, so an answered "taken"/"not taken" never gets reset. The
// operation is idempotent.
func (r *StatusRepository) ResetForToday(medications []models.Medication, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := store.Load[models.StatusRecord](r.store, store.SlotStatuses)
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(records))
	for _, record := range records {
		if record.Date == date {
			existing[record.MedicationID] = true
		}
	}

	added := false
	for _, med := range medications {
		if existing[med.ID] {
			continue
		}
		records = append(records, models.StatusRecord{
			MedicationID: med.ID,
			Date:         date,
			Status:       models.StatusNotYet,
		})
		added = true
	}
	if !added {
		return nil
	}

	return store.Save(r.store, store.SlotStatuses, records)
}
