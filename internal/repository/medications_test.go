package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medic-server/internal/models"
	"medic-server/internal/store"
)

func newTestRepos(t *testing.T) (*MedicationRepository, *StatusRepository) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "medic.db"))
	require.NoError(t, err)
	statuses := NewStatusRepository(st)
	return NewMedicationRepository(st, statuses), statuses
}

func aspirinFields() MedicationFields {
	return MedicationFields{
		Name:         "Aspirin",
		Hour:         9,
		Minute:       0,
		FoodTiming:   models.FoodTimingAfter,
		QuantityType: models.QuantityTypePills,
		Quantity:     2,
	}
}

func TestCreateAssignsUniqueIDAndPersists(t *testing.T) {
	meds, _ := newTestRepos(t)

	first, err := meds.Create(aspirinFields())
	require.NoError(t, err)
	second, err := meds.Create(aspirinFields())
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := meds.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateKeepsInputFields(t *testing.T) {
	meds, _ := newTestRepos(t)

	med, err := meds.Create(aspirinFields())
	require.NoError(t, err)

	assert.Equal(t, "Aspirin", med.Name)
	assert.Equal(t, 9, med.Hour)
	assert.Equal(t, 0, med.Minute)
	assert.Equal(t, models.FoodTimingAfter, med.FoodTiming)
	assert.Equal(t, models.QuantityTypePills, med.QuantityType)
	assert.Equal(t, 2.0, med.Quantity)
}

func TestGetByID(t *testing.T) {
	meds, _ := newTestRepos(t)

	med, err := meds.Create(aspirinFields())
	require.NoError(t, err)

	found, err := meds.GetByID(med.ID)
	require.NoError(t, err)
	assert.Equal(t, med, found)

	_, err = meds.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	meds, _ := newTestRepos(t)

	med, err := meds.Create(aspirinFields())
	require.NoError(t, err)

	newFields := MedicationFields{
		Name:           "Ibuprofen",
		Hour:           20,
		Minute:         45,
		FoodTiming:     models.FoodTimingBefore,
		QuantityType:   models.QuantityTypeSyrup,
		Quantity:       10,
		NotificationID: "handle-2",
	}
	updated, err := meds.Update(med.ID, newFields)
	require.NoError(t, err)
	assert.Equal(t, med.ID, updated.ID)

	found, err := meds.GetByID(med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", found.Name)
	assert.Equal(t, 20, found.Hour)
	assert.Equal(t, 45, found.Minute)
	assert.Equal(t, models.FoodTimingBefore, found.FoodTiming)
	assert.Equal(t, models.QuantityTypeSyrup, found.QuantityType)
	assert.Equal(t, 10.0, found.Quantity)
	assert.Equal(t, "handle-2", found.NotificationID)
}

func TestUpdateMissingIDReturnsNotFound(t *testing.T) {
	meds, _ := newTestRepos(t)

	_, err := meds.Update("missing", aspirinFields())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesToStatuses(t *testing.T) {
	meds, statuses := newTestRepos(t)

	med, err := meds.Create(aspirinFields())
	require.NoError(t, err)
	other, err := meds.Create(aspirinFields())
	require.NoError(t, err)

	require.NoError(t, statuses.Upsert(models.StatusRecord{MedicationID: med.ID, Date: "2024-01-01", Status: models.StatusTaken}))
	require.NoError(t, statuses.Upsert(models.StatusRecord{MedicationID: med.ID, Date: "2024-01-02", Status: models.StatusNotYet}))
	require.NoError(t, statuses.Upsert(models.StatusRecord{MedicationID: other.ID, Date: "2024-01-01", Status: models.StatusNotTaken}))

	require.NoError(t, meds.Delete(med.ID))

	all, err := meds.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].ID)

	remaining, err := statuses.ListAll()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].MedicationID)
}

func TestDeleteMissingIDReturnsNotFoundAndLeavesCollection(t *testing.T) {
	meds, _ := newTestRepos(t)

	med, err := meds.Create(aspirinFields())
	require.NoError(t, err)

	err = meds.Delete("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := meds.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, med.ID, all[0].ID)
}
