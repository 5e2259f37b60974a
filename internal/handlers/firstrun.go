package handlers

import (
	"github.com/gin-gonic/gin"

	"medic-server/internal/store"
	"medic-server/internal/utils"
)

// FirstRunHandler exposes the hasVisited marker the onboarding flow reads on
// startup to decide between the welcome screen and the medication list.
type FirstRunHandler struct {
	Store *store.Store
}

// NewFirstRunHandler creates a new FirstRunHandler.
func NewFirstRunHandler(st *store.Store) *FirstRunHandler {
	return &FirstRunHandler{Store: st}
}

// GetFirstRun reports whether the app has been opened before.
func (h *FirstRunHandler) GetFirstRun(c *gin.Context) {
	visited, err := h.Store.Marker(store.SlotHasVisited)
	if err != nil {
		utils.InternalServerError(c, "Failed to read first-run marker: "+err.Error())
		return
	}
	utils.Success(c, "First-run marker retrieved successfully", gin.H{"hasVisited": visited})
}

// MarkVisited records that the onboarding flow has been completed.
func (h *FirstRunHandler) MarkVisited(c *gin.Context) {
	if err := h.Store.SetMarker(store.SlotHasVisited, true); err != nil {
		utils.InternalServerError(c, "Failed to write first-run marker: "+err.Error())
		return
	}
	utils.Success(c, "First-run marker set successfully", gin.H{"hasVisited": true})
}
