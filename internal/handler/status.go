package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "kothaboli/internal/pkg/http"
	"kothaboli/internal/store"
)

// StatusHandler editor status endpoint
type StatusHandler struct {
	manuscripts *store.Manuscripts
}

// NewStatusHandler creates the status handler
func NewStatusHandler(manuscripts *store.Manuscripts) *StatusHandler {
	return &StatusHandler{manuscripts: manuscripts}
}

// StatusResponseData editor status payload
type StatusResponseData struct {
	ActiveID   string `json:"active_id,omitempty"`
	StoryCount int    `json:"story_count"`
	Dirty      bool   `json:"dirty"` // edits pending the next auto-save
}

// GetStatus reports the editor's persistence state
// @Summary      Editor status
// @Description  Reports the active story, the story count and whether edits await the next auto-save
// @Tags         status
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse
// @Router       /api/v1/status [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(StatusResponseData{
		ActiveID:   h.manuscripts.ActiveID(),
		StoryCount: len(h.manuscripts.List()),
		Dirty:      h.manuscripts.Dirty(),
	}))
}
