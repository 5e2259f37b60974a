package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medic-server/internal/models"
	"medic-server/internal/notify"
	"medic-server/internal/repository"
	"medic-server/internal/utils"
)

// MedicationHandler handles medication CRUD requests. Create/update/delete
// own the notification bookkeeping around the repository calls: the old
// reminder is cancelled before a new one is scheduled, then the record is
// persisted with the fresh handle.
type MedicationHandler struct {
	Meds     *repository.MedicationRepository
	Statuses *repository.StatusRepository
	Notifier notify.Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(meds *repository.MedicationRepository, statuses *repository.StatusRepository, notifier notify.Notifier, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{
		Meds:     meds,
		Statuses: statuses,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

// MedicationRequest represents the request body for creating or updating a
// medication. Hour and Minute are pointers so 0 passes the required check.
type MedicationRequest struct {
	Name         string              `json:"name" binding:"required"`
	Hour         *int                `json:"hour" binding:"required,min=0,max=23"`
	Minute       *int                `json:"minute" binding:"required,min=0,max=59"`
	FoodTiming   models.FoodTiming   `json:"foodTiming" binding:"required,oneof='Before Food' 'After Food'"`
	QuantityType models.QuantityType `json:"quantityType" binding:"required,oneof=Pills Syrup"`
	Quantity     float64             `json:"quantity" binding:"required,gt=0"`
}

// MedicationView is a medication with today's dose status merged in, the
// shape the list screen renders from.
type MedicationView struct {
	models.Medication
	Status models.DoseStatus `json:"status"`
}

// ListMedications returns all medications with today's status attached.
// Medications without a status row for today show as "not yet".
func (h *MedicationHandler) ListMedications(c *gin.Context) {
	meds, err := h.Meds.List()
	if err != nil {
		utils.InternalServerError(c, "Failed to load medications: "+err.Error())
		return
	}
	statuses, err := h.Statuses.ListAll()
	if err != nil {
		utils.InternalServerError(c, "Failed to load statuses: "+err.Error())
		return
	}

	today := models.FormatDate(h.Now())
	todayStatus := make(map[string]models.DoseStatus, len(statuses))
	for _, record := range statuses {
		if record.Date == today {
			todayStatus[record.MedicationID] = record.Status
		}
	}

	views := make([]MedicationView, 0, len(meds))
	for _, med := range meds {
		status, ok := todayStatus[med.ID]
		if !ok {
			status = models.StatusNotYet
		}
		views = append(views, MedicationView{Medication: med, Status: status})
	}

	utils.Success(c, "Medications retrieved successfully", views)
}

// CreateMedication persists a new medication and schedules its daily
// reminder. The record is created first so the notification payload can
// carry the medication id, then updated with the returned handle.
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req MedicationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	fields := req.fields()
	med, err := h.Meds.Create(fields)
	if err != nil {
		utils.InternalServerError(c, "Failed to create medication: "+err.Error())
		return
	}

	handle, err := h.Notifier.ScheduleDaily(c.Request.Context(), *req.Hour, *req.Minute, reminderNotification(med.ID, req.Name, req.FoodTiming))
	if err != nil {
		// Roll the record back so a failed schedule does not leave a
		// medication that never reminds.
		if delErr := h.Meds.Delete(med.ID); delErr != nil {
			h.Logger.Error("rollback after schedule failure failed",
				zap.String("medicationId", med.ID), zap.Error(delErr))
		}
		utils.InternalServerError(c, "Failed to schedule reminder: "+err.Error())
		return
	}

	fields.NotificationID = handle
	med, err = h.Meds.Update(med.ID, fields)
	if err != nil {
		// The reminder is already scheduled; if the persist fails here the
		// handle is orphaned. Known gap, surfaced as a storage error.
		utils.InternalServerError(c, "Failed to persist medication: "+err.Error())
		return
	}

	utils.Created(c, "Medication scheduled successfully", med)
}

// UpdateMedication replaces all fields of a medication, cancelling the old
// reminder and scheduling a new one for the new time.
func (h *MedicationHandler) UpdateMedication(c *gin.Context) {
	id := c.Param("id")

	var req MedicationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	existing, err := h.Meds.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(c, "Medication not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to load medication: "+err.Error())
		return
	}

	if existing.NotificationID != "" {
		if err := h.Notifier.Cancel(c.Request.Context(), existing.NotificationID); err != nil {
			h.Logger.Warn("cancel of old reminder failed",
				zap.String("medicationId", id),
				zap.String("handle", existing.NotificationID),
				zap.Error(err))
		}
	}

	handle, err := h.Notifier.ScheduleDaily(c.Request.Context(), *req.Hour, *req.Minute, reminderNotification(id, req.Name, req.FoodTiming))
	if err != nil {
		utils.InternalServerError(c, "Failed to schedule reminder: "+err.Error())
		return
	}

	fields := req.fields()
	fields.NotificationID = handle
	med, err := h.Meds.Update(id, fields)
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(c, "Medication not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to persist medication: "+err.Error())
		return
	}

	utils.Success(c, "Medication updated successfully", med)
}

// DeleteMedication cancels the reminder and removes the medication along
// with its status records.
func (h *MedicationHandler) DeleteMedication(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.Meds.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(c, "Medication not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to load medication: "+err.Error())
		return
	}

	if existing.NotificationID != "" {
		if err := h.Notifier.Cancel(c.Request.Context(), existing.NotificationID); err != nil {
			h.Logger.Warn("cancel of reminder failed",
				zap.String("medicationId", id),
				zap.String("handle", existing.NotificationID),
				zap.Error(err))
		}
	}

	if err := h.Meds.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Medication not found")
			return
		}
		utils.InternalServerError(c, "Failed to delete medication: "+err.Error())
		return
	}

	utils.Success(c, "Medication deleted successfully", nil)
}

func (req MedicationRequest) fields() repository.MedicationFields {
	return repository.MedicationFields{
		Name:         req.Name,
		Hour:         *req.Hour,
		Minute:       *req.Minute,
		FoodTiming:   req.FoodTiming,
		QuantityType: req.QuantityType,
		Quantity:     req.Quantity,
	}
}

func reminderNotification(medicationID, name string, foodTiming models.FoodTiming) notify.Notification {
	return notify.Notification{
		MedicationID: medicationID,
		Title:        "💊 Medication Reminder",
		Body:         fmt.Sprintf("It's time to take your %s (%s)", name, foodTiming),
	}
}
