// Package store implements the slot-based record store: each named slot holds
// one whole collection serialized as a JSON array. Reads and writes always
// cover the entire collection; there are no per-record operations and no
// transactions beyond the single-row slot overwrite.
package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medic-server/internal/models"
)

// Well-known slot names. The JSON payload of the collection slots is an
// external contract shared with the mobile client.
const (
	SlotMedications = "medications"
	SlotStatuses    = "medication_statuses"
	SlotHasVisited  = "hasVisited"
)

// Store provides load/save access to named slots backed by SQLite.
type Store struct {
	db *gorm.DB
}

// New wraps an already opened database. The schema must have been migrated,
// which Open takes care of.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load reads the whole collection stored in the named slot. An absent slot
// yields an empty collection, not an error.
func Load[T any](s *Store, slot string) ([]T, error) {
	raw, found, err := s.rawValue(slot)
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", slot, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode slot %q: %w", slot, err)
	}
	return records, nil
}

// Save serializes the whole collection and overwrites the named slot.
func Save[T any](s *Store, slot string, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode slot %q: %w", slot, err)
	}
	if err := s.writeValue(slot, string(payload)); err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

// Marker reads a boolean marker slot. An absent marker reads as false.
func (s *Store) Marker(slot string) (bool, error) {
	raw, found, err := s.rawValue(slot)
	if err != nil {
		return false, fmt.Errorf("read slot %q: %w", slot, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("decode slot %q: %w", slot, err)
	}
	return value, nil
}

// SetMarker overwrites a boolean marker slot.
func (s *Store) SetMarker(slot string, value bool) error {
	if err := s.writeValue(slot, strconv.FormatBool(value)); err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

func (s *Store) rawValue(slot string) (string, bool, error) {
	var row models.Slot
	err := s.db.Where("name = ?", slot).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *Store) writeValue(slot, value string) error {
	row := models.Slot{Name: slot, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
