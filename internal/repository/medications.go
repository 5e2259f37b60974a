// Package repository implements CRUD over the medication and status
// collections. Every operation is a whole-collection read-modify-write
// against a single store slot; a mutex per repository serializes those cycles
// within the process. Between processes the store stays last-write-wins at
// whole-collection granularity, which matches the single-user usage this data
// model was designed for.
package repository

import (
	"sync"

	"github.com/google/uuid"

	"medic-server/internal/models"
	"medic-server/internal/store"
)

// MedicationFields carries every mutable field of a medication. Create and
// Update replace all fields at once; partial updates do not exist.
type MedicationFields struct {
	Name           string
	Hour           int
	Minute         int
	FoodTiming     models.FoodTiming
	QuantityType   models.QuantityType
	Quantity       float64
	NotificationID string
}

// MedicationRepository persists the medication collection. It does not touch
// notification scheduling: callers schedule or cancel reminders themselves
// and pass the resulting handle in via NotificationID.
type MedicationRepository struct {
	mu       sync.Mutex
	store    *store.Store
	statuses *StatusRepository
}

func NewMedicationRepository(st *store.Store, statuses *StatusRepository) *MedicationRepository {
	return &MedicationRepository{store: st, statuses: statuses}
}

// List returns all medications, unordered.
func (r *MedicationRepository) List() ([]models.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return store.Load[models.Medication](r.store, store.SlotMedications)
}

// GetByID returns the medication with the given id or ErrNotFound.
func (r *MedicationRepository) GetByID(id string) (models.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meds, err := store.Load[models.Medication](r.store, store.SlotMedications)
	if err != nil {
		return models.Medication{}, err
	}
	for _, med := range meds {
		if med.ID == id {
			return med, nil
		}
	}
	return models.Medication{}, ErrNotFound
}

// Create assigns a fresh id, appends the medication and persists the
// collection. The created record is returned so callers see the id.
func (r *MedicationRepository) Create(fields MedicationFields) (models.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meds, err := store.Load[models.Medication](r.store, store.SlotMedications)
	if err != nil {
		return models.Medication{}, err
	}

	med := models.Medication{
		ID:             uuid.NewString(),
		Name:           fields.Name,
		Hour:           fields.Hour,
		Minute:         fields.Minute,
		FoodTiming:     fields.FoodTiming,
		QuantityType:   fields.QuantityType,
		Quantity:       fields.Quantity,
		NotificationID: fields.NotificationID,
	}
	meds = append(meds, med)

	if err := store.Save(r.store, store.SlotMedications, meds); err != nil {
		return models.Medication{}, err
	}
	return med, nil
}

// Update replaces every field of the medication with the given id. Returns
// ErrNotFound when the id is absent instead of silently doing nothing.
func (r *MedicationRepository) Update(id string, fields MedicationFields) (models.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meds, err := store.Load[models.Medication](r.store, store.SlotMedications)
	if err != nil {
		return models.Medication{}, err
	}

	updated := models.Medication{
		ID:             id,
		Name:           fields.Name,
		Hour:           fields.Hour,
		Minute:         fields.Minute,
		FoodTiming:     fields.FoodTiming,
		QuantityType:   fields.QuantityType,
		Quantity:       fields.Quantity,
		NotificationID: fields.NotificationID,
	}

	found := false
	for i, med := range meds {
		if med.ID == id {
			meds[i] = updated
			found = true
			break
		}
	}
	if !found {
		return models.Medication{}, ErrNotFound
	}

	if err := store.Save(r.store, store.SlotMedications, meds); err != nil {
		return models.Medication{}, err
	}
	return updated, nil
}

// Delete removes the medication and cascades to its status records. Returns
// ErrNotFound when the id is absent; in that case the collections are left
// untouched.
func (r *MedicationRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meds, err := store.Load[models.Medication](r.store, store.SlotMedications)
	if err != nil {
		return err
	}

	remaining := make([]models.Medication, 0, len(meds))
	found := false
	for _, med := range meds {
		if med.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, med)
	}
	if !found {
		return ErrNotFound
	}

	if err := store.Save(r.store, store.SlotMedications, remaining); err != nil {
		return err
	}
	return r.statuses.DeleteByMedication(id)
}
