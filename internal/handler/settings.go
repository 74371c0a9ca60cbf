package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kothaboli/internal/ai"
	"kothaboli/internal/model/story"
	httputil "kothaboli/internal/pkg/http"
	"kothaboli/internal/store"
)

// SettingsHandler user settings endpoints
type SettingsHandler struct {
	settings    *store.Settings
	manuscripts *store.Manuscripts
}

// NewSettingsHandler creates the settings handler
func NewSettingsHandler(settings *store.Settings, manuscripts *store.Manuscripts) *SettingsHandler {
	return &SettingsHandler{
		settings:    settings,
		manuscripts: manuscripts,
	}
}

// SettingsResponseData settings payload; personas reflect the filter state
type SettingsResponseData struct {
	Settings story.AppSettings `json:"settings"`
	Personas []ai.Persona      `json:"personas"`
}

// GetSettings returns the current settings
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse
// @Router       /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings := h.settings.Get()
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(SettingsResponseData{
		Settings: settings,
		Personas: ai.Personas(settings.ContentFilterRelaxed),
	}))
}

// UpdateSettings replaces the settings
// @Summary      Update settings
// @Description  Replaces the settings record; an unsupported auto-save interval falls back to the default
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        settings  body  story.AppSettings  true  "new settings"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      400  {object}  httputil.ErrorResponse
// @Router       /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req story.AppSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.ErrorResponse{Code: 40001, Message: "Invalid request body", Detail: err.Error()})
		return
	}

	if err := h.settings.Set(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, httputil.ErrorResponse{Code: 50001, Message: "Failed to persist settings", Detail: err.Error()})
		return
	}

	settings := h.settings.Get()
	h.manuscripts.SetAutoSaveInterval(time.Duration(settings.AutoSaveIntervalMs) * time.Millisecond)

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(SettingsResponseData{
		Settings: settings,
		Personas: ai.Personas(settings.ContentFilterRelaxed),
	}))
}
