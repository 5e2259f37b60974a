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

// StatusHandler handles dose status requests: the "did you take it?" answer
// and the snooze action from the reminder prompt.
type StatusHandler struct {
	Meds     *repository.MedicationRepository
	Statuses *repository.StatusRepository
	Notifier notify.Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(meds *repository.MedicationRepository, statuses *repository.StatusRepository, notifier notify.Notifier, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		Meds:     meds,
		Statuses: statuses,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

// ListStatuses returns every status record.
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	records, err := h.Statuses.ListAll()
	if err != nil {
		utils.InternalServerError(c, "Failed to load statuses: "+err.Error())
		return
	}
	utils.Success(c, "Statuses retrieved successfully", records)
}

// RecordStatusRequest represents the request body for recording a dose
// outcome. Date defaults to today when omitted.
type RecordStatusRequest struct {
	Date   string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Status models.DoseStatus `json:"status" binding:"required,oneof='not yet' taken 'not taken'"`
}

// RecordStatus upserts the dose outcome for one medication and one day.
func (h *StatusHandler) RecordStatus(c *gin.Context) {
	id := c.Param("id")

	var req RecordStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := h.Meds.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Medication not found")
			return
		}
		utils.InternalServerError(c, "Failed to load medication: "+err.Error())
		return
	}

	date := req.Date
	if date == "" {
		date = models.FormatDate(h.Now())
	}

	record := models.StatusRecord{
		MedicationID: id,
		Date:         date,
		Status:       req.Status,
	}
	if err := h.Statuses.Upsert(record); err != nil {
		utils.InternalServerError(c, "Failed to save status: "+err.Error())
		return
	}

	utils.Success(c, "Status recorded successfully", record)
}

// SnoozeRequest represents the request body for snoozing a reminder.
type SnoozeRequest struct {
	Minutes int `json:"minutes" binding:"required,gt=0"`
}

// Snooze schedules a one-shot follow-up reminder after the given number of
// minutes.
func (h *StatusHandler) Snooze(c *gin.Context) {
	id := c.Param("id")

	var req SnoozeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	med, err := h.Meds.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Medication not found")
			return
		}
		utils.InternalServerError(c, "Failed to load medication: "+err.Error())
		return
	}

	delay := time.Duration(req.Minutes) * time.Minute
	handle, err := h.Notifier.ScheduleOnceAfter(c.Request.Context(), delay, notify.Notification{
		MedicationID: med.ID,
		Title:        "⏰ Medication Reminder",
		Body:         fmt.Sprintf("Reminder after snooze: It's time to take your %s.", med.Name),
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to schedule snooze reminder: "+err.Error())
		return
	}

	h.Logger.Info("reminder snoozed",
		zap.String("medicationId", med.ID),
		zap.Int("minutes", req.Minutes))
	utils.Success(c, "Reminder snoozed successfully", gin.H{"handle": handle, "minutes": req.Minutes})
}
