package api

import (
	"errors"
	"net/http"

	reqdto "slotlink/internal/handler/dto/request"
	"slotlink/internal/handler/middleware"
	"slotlink/internal/usecase/commands"
	"slotlink/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsCommands commands.SettingsCommands
	settingsQueries  queries.SettingsQueries
}

func NewSettingsHandler(settingsCommands commands.SettingsCommands, settingsQueries queries.SettingsQueries) *SettingsHandler {
	return &SettingsHandler{
		settingsCommands: settingsCommands,
		settingsQueries:  settingsQueries,
	}
}

// @Summary Get schedule settings
// @Description Get the current technician's schedule settings, defaults included
// @Tags schedule-settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.ScheduleSettingsView
// @Failure 401 {object} map[string]string
// @Router /schedule-settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	technicianID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.settingsQueries.For(c.Request.Context(), technicianID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Update schedule settings
// @Description Replace the current technician's schedule settings
// @Tags schedule-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateSettingsRequest true "Schedule settings"
// @Success 200 {object} queries.ScheduleSettingsView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /schedule-settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	technicianID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.settingsCommands.Update(c.Request.Context(), technicianID, req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidSettings):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid schedule settings",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
